package repository

import (
	"context"

	"github.com/admin/astro-match/internal/domain"
	"github.com/google/uuid"
)

type IChatMessageRepo interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ChatMessage, error)
}
