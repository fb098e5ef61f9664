package location

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/ports/service"
)

const (
	MinQueryLength = 3
	MaxResults     = 5
)

// Service подсказки мест рождения
type Service struct {
	LocationService service.ILocationService
	Log             *slog.Logger
}

func New(locationService service.ILocationService, log *slog.Logger) *Service {
	return &Service{
		LocationService: locationService,
		Log:             log,
	}
}

// Autocomplete короткий запрос сразу даёт пустой список, без похода к провайдеру
func (s *Service) Autocomplete(ctx context.Context, query string) ([]domain.Place, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []domain.Place{}, nil
	}

	places, err := s.LocationService.Autocomplete(ctx, query)
	if err != nil {
		return []domain.Place{}, fmt.Errorf("failed to autocomplete location: %w", err)
	}

	if len(places) > MaxResults {
		places = places[:MaxResults]
	}
	s.Log.Debug("location autocomplete", "query", query, "results", len(places))
	return places, nil
}
