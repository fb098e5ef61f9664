package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/admin/astro-match/internal/domain"
	kafkaPorts "github.com/admin/astro-match/internal/ports/kafka"
	"github.com/google/uuid"
)

type chartWarmer interface {
	WarmUp(ctx context.Context, userID uuid.UUID) error
}

// ChartWarmupHandler пересчитывает карты пользователя после смены данных рождения
type ChartWarmupHandler struct {
	warmer chartWarmer
	log    *slog.Logger
}

func NewChartWarmupHandler(warmer chartWarmer, log *slog.Logger) kafkaPorts.MessageHandler {
	return &ChartWarmupHandler{
		warmer: warmer,
		log:    log,
	}
}

func (h *ChartWarmupHandler) HandleMessage(ctx context.Context, key string, value []byte) error {
	var event domain.ChartWarmupEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal chart warmup event: %w", err)
	}
	if event.UserID == uuid.Nil {
		return fmt.Errorf("user_id is required in chart warmup event [key=%s]", key)
	}

	h.log.Debug("processing chart warmup", "user_id", event.UserID)

	if err := h.warmer.WarmUp(ctx, event.UserID); err != nil {
		// профиль удалён, пока событие лежало в топике
		if errors.Is(err, domain.ErrNotFound) {
			h.log.Warn("profile not found, chart warmup skipped", "user_id", event.UserID)
			return domain.WrapBusinessError(err)
		}
		return fmt.Errorf("failed to warm up charts: %w", err)
	}
	return nil
}
