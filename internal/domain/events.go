package domain

import "github.com/google/uuid"

const ChartWarmupAction = "chart_warmup"

// ChartWarmupEvent просьба пересчитать и закешировать карты пользователя
type ChartWarmupEvent struct {
	UserID uuid.UUID `json:"user_id"`
}
