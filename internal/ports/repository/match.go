package repository

import (
	"context"

	"github.com/admin/astro-match/internal/domain"
	"github.com/google/uuid"
)

type IMatchRepo interface {
	Create(ctx context.Context, match *domain.Match) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Match, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error)
}
