package chart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/pkg/metrics"
	"github.com/admin/astro-match/internal/ports/cache"
	"github.com/google/uuid"
)

func cacheKey(userID uuid.UUID, kind domain.ChartKind) string {
	return fmt.Sprintf("astro:chart:%s:%s", userID, kind)
}

// lookup сначала кэш, затем saved_charts с записью найденного обратно в кэш.
// Нет ни там, ни там: domain.ErrNotFound
func (s *Service) lookup(ctx context.Context, userID uuid.UUID, kind domain.ChartKind) (json.RawMessage, error) {
	key := cacheKey(userID, kind)

	if s.Cache != nil {
		cached, err := s.Cache.Get(ctx, key)
		switch {
		case err == nil && json.Valid([]byte(cached)):
			metrics.ChartCacheHits.WithLabelValues("cache").Inc()
			s.Log.Debug("chart served from cache", "user_id", userID, "chart_type", kind)
			return json.RawMessage(cached), nil
		case err == nil:
			s.Log.Warn("cached chart is not valid JSON, ignoring", "user_id", userID, "chart_type", kind)
		case !errors.Is(err, cache.ErrMiss):
			s.Log.Warn("chart cache read failed", "error", err, "user_id", userID, "chart_type", kind)
		}
	}

	saved, err := s.SavedChartRepo.GetLatest(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	metrics.ChartCacheHits.WithLabelValues("db").Inc()

	s.writeCache(ctx, userID, kind, saved.ChartData)
	return saved.ChartData, nil
}

func (s *Service) writeCache(ctx context.Context, userID uuid.UUID, kind domain.ChartKind, payload json.RawMessage) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, cacheKey(userID, kind), string(payload), s.cacheTTL); err != nil {
		s.Log.Warn("failed to write chart to cache", "error", err, "user_id", userID, "chart_type", kind)
	}
}
