package service

import (
	"context"
)

// IAlerterService алерты для дежурных (ошибки планировщика, внешние вебхуки)
type IAlerterService interface {
	SendAlert(ctx context.Context, message string) error
}
