package service

import (
	"context"

	"github.com/admin/astro-match/internal/domain"
)

type ILocationService interface {
	Autocomplete(ctx context.Context, query string) ([]domain.Place, error)
}
