package astroApi

import (
	"context"
	"encoding/json"
	"fmt"

	astroApiAdapter "github.com/admin/astro-match/internal/adapters/secondary/astroApi"
	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/ports/service"
)

// Service реализует IAstroAPIService поверх HTTP клиента
type Service struct {
	client *astroApiAdapter.Client
}

func New(client *astroApiAdapter.Client) service.IAstroAPIService {
	return &Service{
		client: client,
	}
}

// FetchChart ошибки провайдера пробрасываются как есть, чтобы их можно было показать пользователю
func (s *Service) FetchChart(ctx context.Context, endpoint string, req domain.ChartRequest) (json.RawMessage, error) {
	raw, err := s.client.FetchChart(ctx, endpoint, req)
	if err != nil {
		if _, ok := domain.AsProviderError(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch chart %q: %w", endpoint, err)
	}

	if len(raw) == 0 {
		return nil, &domain.ProviderError{Message: "astro API returned empty response"}
	}

	return raw, nil
}
