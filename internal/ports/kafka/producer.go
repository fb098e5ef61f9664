package kafka

import (
	"context"

	"github.com/google/uuid"
)

// IChartWarmupProducer отправляет запросы на фоновый расчёт карт
type IChartWarmupProducer interface {
	SendChartWarmup(ctx context.Context, userID uuid.UUID) error
	Close() error
}
