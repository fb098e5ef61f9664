package chart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/admin/astro-match/internal/domain"
)

// birthChartPayload так натальная карта хранится в saved_charts
type birthChartPayload struct {
	Planets json.RawMessage `json:"planets"`
	Dashas  json.RawMessage `json:"dashas"`
}

// fetch ходит к провайдеру без ретраев. Для натальной карты дополнительно запрашиваются даши;
// их ошибка не валит расчёт, в payload тогда dashas = null
func (s *Service) fetch(ctx context.Context, kind domain.ChartKind, req domain.ChartRequest) (json.RawMessage, error) {
	info, ok := kind.Info()
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidChartKind, kind)
	}

	if kind != domain.ChartKindBirth {
		return s.AstroAPIService.FetchChart(ctx, info.Endpoint, req)
	}

	planets, err := s.AstroAPIService.FetchChart(ctx, domain.EndpointPlanets, req)
	if err != nil {
		return nil, err
	}

	dashas, err := s.AstroAPIService.FetchChart(ctx, domain.EndpointDashas, req)
	if err != nil {
		s.Log.Warn("dasha fetch failed, continuing without dashas", "error", err)
		dashas = nil
	}

	combined, err := json.Marshal(birthChartPayload{Planets: planets, Dashas: dashas})
	if err != nil {
		return nil, fmt.Errorf("failed to combine birth chart payload: %w", err)
	}
	return combined, nil
}
