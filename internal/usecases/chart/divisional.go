package chart

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/admin/astro-match/internal/domain"
	"github.com/google/uuid"
)

// AcquireDivisional варги строго по одной в фиксированном порядке, чтобы не нагружать провайдера.
// Ошибка одной карты не останавливает остальные. Пустой kinds означает все варги
func (s *Service) AcquireDivisional(ctx context.Context, userID uuid.UUID, kinds []domain.ChartKind, refresh bool) ([]*domain.ChartResult, error) {
	ordered, err := orderDivisional(kinds)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.ChartResult, 0, len(ordered))
	for _, kind := range ordered {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := s.Acquire(ctx, userID, kind, refresh)
		if err != nil {
			return results, err
		}
		results = append(results, result)

		if result.State == domain.ChartStateIncomplete {
			break
		}
	}
	return results, nil
}

// WarmUp заранее считает натальную карту и все варги, чтобы первый просмотр шёл из кэша
func (s *Service) WarmUp(ctx context.Context, userID uuid.UUID) error {
	birth, err := s.Acquire(ctx, userID, domain.ChartKindBirth, false)
	if err != nil {
		return err
	}
	if birth.State == domain.ChartStateIncomplete {
		s.Log.Debug("warm-up skipped, birth data incomplete", "user_id", userID, "reason", birth.Reason)
		return nil
	}

	results, err := s.AcquireDivisional(ctx, userID, nil, false)
	if err != nil {
		return err
	}

	var failed []string
	if birth.State == domain.ChartStateError {
		failed = append(failed, string(birth.Kind))
	}
	for _, result := range results {
		if result.State == domain.ChartStateError {
			failed = append(failed, string(result.Kind))
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("charts failed to warm up: %s", strings.Join(failed, ", "))
	}

	s.Log.Info("charts warmed up", "user_id", userID, "count", len(results)+1)
	return nil
}

func orderDivisional(kinds []domain.ChartKind) ([]domain.ChartKind, error) {
	all := domain.DivisionalChartKinds()
	if len(kinds) == 0 {
		return all, nil
	}

	requested := make(map[domain.ChartKind]bool, len(kinds))
	var invalid []error
	for _, kind := range kinds {
		info, ok := kind.Info()
		if !ok || !info.Divisional {
			invalid = append(invalid, fmt.Errorf("%w: %s is not a divisional chart", domain.ErrInvalidChartKind, kind))
			continue
		}
		requested[kind] = true
	}
	if len(invalid) > 0 {
		return nil, errors.Join(invalid...)
	}

	ordered := make([]domain.ChartKind, 0, len(requested))
	for _, kind := range all {
		if requested[kind] {
			ordered = append(ordered, kind)
		}
	}
	return ordered, nil
}
