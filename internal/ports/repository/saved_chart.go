package repository

import (
	"context"
	"encoding/json"

	"github.com/admin/astro-match/internal/domain"
	"github.com/google/uuid"
)

// ISavedChartRepo хранилище рассчитанных карт, одна запись на (user_id, chart_type)
type ISavedChartRepo interface {
	GetLatest(ctx context.Context, userID uuid.UUID, kind domain.ChartKind) (*domain.SavedChart, error)
	Upsert(ctx context.Context, userID uuid.UUID, kind domain.ChartKind, payload json.RawMessage) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
