package chart

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/pkg/metrics"
	"github.com/google/uuid"
)

// persist best-effort: ошибка записи только логируется, свежая карта всё равно отдаётся
func (s *Service) persist(ctx context.Context, userID uuid.UUID, kind domain.ChartKind, payload json.RawMessage) {
	if err := s.SavedChartRepo.Upsert(ctx, userID, kind, payload); err != nil {
		metrics.ChartPersistFailures.Inc()
		s.Log.Warn("failed to persist chart, continuing", "error", err, "user_id", userID, "chart_type", kind)
	} else {
		s.Log.Info("chart persisted", "user_id", userID, "chart_type", kind, "size", len(payload))
	}

	s.writeCache(ctx, userID, kind, payload)
}

// birthDataUnchanged профиль могли отредактировать, пока шёл запрос к провайдеру;
// карта по старым данным тогда не сохраняется
func (s *Service) birthDataUnchanged(ctx context.Context, userID uuid.UUID, loaded *domain.Profile) bool {
	fresh, err := s.ProfileRepo.GetByID(ctx, userID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.Log.Info("profile removed during fetch, chart not persisted", "user_id", userID)
		return false
	case err != nil:
		s.Log.Warn("failed to re-check profile before persisting chart", "error", err, "user_id", userID)
		return true
	case fresh.BirthDataChanged(loaded):
		s.Log.Info("birth data changed during fetch, chart not persisted", "user_id", userID)
		return false
	}
	return true
}
