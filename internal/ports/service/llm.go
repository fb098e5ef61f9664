package service

import (
	"context"

	"github.com/admin/astro-match/internal/domain"
)

// ILLMService интерфейс для чат-модели
type ILLMService interface {
	Complete(ctx context.Context, messages []domain.LLMMessage) (string, error)
	// Stream вызывает onDelta на каждый фрагмент ответа
	Stream(ctx context.Context, messages []domain.LLMMessage, onDelta func(delta string) error) error
}
