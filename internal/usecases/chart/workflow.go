package chart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/pkg/metrics"
	"github.com/google/uuid"
)

// Acquire один прогон: idle -> checking_cache -> (done | fetching -> persisting -> reducing -> done | error).
// Неполные данные рождения дают state=incomplete без обращения к провайдеру.
// Ошибка возвращается только если не удалось загрузить профиль; сбои провайдера живут в ChartResult.
// Одновременные вызовы для одной пары (user, kind) схлопываются в один.
func (s *Service) Acquire(ctx context.Context, userID uuid.UUID, kind domain.ChartKind, refresh bool) (*domain.ChartResult, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidChartKind, kind)
	}

	key := flightKey(userID, kind, refresh)
	v, err, shared := s.flights.Do(key, func() (interface{}, error) {
		return s.run(ctx, userID, kind, refresh)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.Log.Debug("chart acquisition shared with concurrent caller", "user_id", userID, "chart_type", kind)
	}

	result := *v.(*domain.ChartResult)
	return &result, nil
}

// Retry ручной перезапуск после ошибки, всегда снова через проверку кэша
func (s *Service) Retry(ctx context.Context, userID uuid.UUID, kind domain.ChartKind) (*domain.ChartResult, error) {
	return s.Acquire(ctx, userID, kind, false)
}

// Invalidate удаляет все сохранённые карты пользователя и вычищает их из кэша
func (s *Service) Invalidate(ctx context.Context, userID uuid.UUID) (int64, error) {
	deleted, err := s.SavedChartRepo.DeleteAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete saved charts: %w", err)
	}

	kinds := domain.AllChartKinds()
	keys := make([]string, 0, len(kinds))
	for _, info := range kinds {
		keys = append(keys, cacheKey(userID, info.Kind))
		s.flights.Forget(flightKey(userID, info.Kind, false))
		s.flights.Forget(flightKey(userID, info.Kind, true))
	}

	if s.Cache != nil {
		if err := s.Cache.Delete(ctx, keys...); err != nil {
			return deleted, fmt.Errorf("failed to evict cached charts: %w", err)
		}
	}

	s.Log.Info("saved charts invalidated", "user_id", userID, "deleted", deleted)
	return deleted, nil
}

func flightKey(userID uuid.UUID, kind domain.ChartKind, refresh bool) string {
	return fmt.Sprintf("%s:%s:%t", userID, kind, refresh)
}

func (s *Service) run(ctx context.Context, userID uuid.UUID, kind domain.ChartKind, refresh bool) (*domain.ChartResult, error) {
	profile, err := s.ProfileRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	result := domain.NewChartResult(kind)
	defer func() {
		metrics.ChartWorkflowTotal.WithLabelValues(string(kind), string(result.State), result.Source).Inc()
	}()

	birthData := profile.BirthData()
	if err := ValidateBirthData(birthData); err != nil {
		return s.incomplete(result, userID, err), nil
	}
	if s.policy.RequiresOffset() && birthData.TZOffset == nil {
		return s.incomplete(result, userID, domain.ErrTimezoneRequired), nil
	}

	result.Advance(domain.ChartStateCheckingCache)
	if !refresh {
		payload, err := s.lookup(ctx, userID, kind)
		switch {
		case err == nil:
			result.Source = domain.ChartSourceCache
			s.summarize(result, payload)
			result.Advance(domain.ChartStateDone)
			return result, nil
		case errors.Is(err, domain.ErrNotFound):
		default:
			s.Log.Warn("chart lookup failed, fetching fresh", "error", err, "user_id", userID, "chart_type", kind)
		}
	}

	req, err := BuildChartRequest(birthData, s.policy, s.now())
	if err != nil {
		return s.incomplete(result, userID, err), nil
	}

	result.Advance(domain.ChartStateFetching)
	payload, err := s.fetch(ctx, kind, req)
	if err != nil {
		s.fail(result, userID, req, err)
		return result, nil
	}

	result.Advance(domain.ChartStatePersisting)
	if s.birthDataUnchanged(ctx, userID, profile) {
		s.persist(ctx, userID, kind, payload)
	}

	result.Advance(domain.ChartStateReducing)
	result.Source = domain.ChartSourceRemote
	s.summarize(result, payload)

	result.Advance(domain.ChartStateDone)
	return result, nil
}

func (s *Service) incomplete(result *domain.ChartResult, userID uuid.UUID, reason error) *domain.ChartResult {
	result.Advance(domain.ChartStateIncomplete)
	result.Reason = reason.Error()
	s.Log.Debug("birth data incomplete, chart skipped", "user_id", userID, "chart_type", result.Kind, "reason", result.Reason)
	return result
}

func (s *Service) fail(result *domain.ChartResult, userID uuid.UUID, req domain.ChartRequest, err error) {
	result.Advance(domain.ChartStateError)

	debug := &domain.DebugInfo{ResponseError: err.Error(), RequestData: &req}
	if providerErr, ok := domain.AsProviderError(err); ok {
		debug.ResponseError = providerErr.Message
		debug.Details = providerErr.Details
	}
	result.Error = debug.ResponseError
	result.Debug = debug

	s.Log.Warn("chart fetch failed", "error", err, "user_id", userID, "chart_type", result.Kind)
}

func (s *Service) summarize(result *domain.ChartResult, payload json.RawMessage) {
	result.Payload = payload

	summary, err := Reduce(result.Kind, payload, s.now())
	if err != nil {
		result.ProcessingError = fmt.Sprintf("Error processing chart data: %v", err)
		s.Log.Warn("chart payload could not be fully processed", "error", err, "chart_type", result.Kind)
	}
	result.Summary = &summary
}
