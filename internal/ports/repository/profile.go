package repository

import (
	"context"

	"github.com/admin/astro-match/internal/domain"
	"github.com/google/uuid"
)

type IProfileRepo interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	Update(ctx context.Context, profile *domain.Profile) error
	SetAvatarURL(ctx context.Context, id uuid.UUID, avatarURL *string) error
	ListAvatarURLs(ctx context.Context) ([]string, error)
}
