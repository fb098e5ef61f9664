package service

import (
	"context"
	"encoding/json"

	"github.com/admin/astro-match/internal/domain"
)

// IAstroAPIService интерфейс для работы с астро-API
type IAstroAPIService interface {
	// FetchChart возвращает сырой JSON провайдера; ошибки провайдера приходят как *domain.ProviderError
	FetchChart(ctx context.Context, endpoint string, req domain.ChartRequest) (json.RawMessage, error)
}
