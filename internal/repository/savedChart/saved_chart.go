package savedChartRepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/ports/persistence"
	ports "github.com/admin/astro-match/internal/ports/repository"
	"github.com/google/uuid"
)

type savedChartColumns struct {
	TableName string
	ID        string
	UserID    string
	ChartType string
	ChartData string
	CreatedAt string
	UpdatedAt string
}

// savedChartRow jsonb приходит из драйвера то строкой, то байтами; []byte принимает оба варианта
type savedChartRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	ChartType string    `db:"chart_type"`
	ChartData []byte    `db:"chart_data"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns savedChartColumns
}

func New(db persistence.Persistence, log *slog.Logger) ports.ISavedChartRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: savedChartColumns{
			TableName: "saved_charts",
			ID:        "id",
			UserID:    "user_id",
			ChartType: "chart_type",
			ChartData: "chart_data",
			CreatedAt: "created_at",
			UpdatedAt: "updated_at",
		},
	}
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.UserID,
		r.columns.ChartType,
		r.columns.ChartData,
		r.columns.CreatedAt,
		r.columns.UpdatedAt)
}

// GetLatest самая свежая запись по updated_at, затем created_at
func (r *Repository) GetLatest(ctx context.Context, userID uuid.UUID, kind domain.ChartKind) (*domain.SavedChart, error) {
	var row savedChartRow
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s = $2 ORDER BY %s DESC, %s DESC LIMIT 1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.UserID,
		r.columns.ChartType,
		r.columns.UpdatedAt,
		r.columns.CreatedAt)
	if err := r.db.Get(ctx, &row, query, userID, string(kind)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Debug("saved chart not found", "user_id", userID, "chart_type", kind)
			return nil, fmt.Errorf("saved chart %s: %w", kind, domain.ErrNotFound)
		}
		r.Log.Error("failed to get saved chart", "error", err, "user_id", userID, "chart_type", kind)
		return nil, fmt.Errorf("failed to get saved chart: %w", err)
	}

	r.Log.Debug("saved chart retrieved", "user_id", userID, "chart_type", kind, "updated_at", row.UpdatedAt)
	return &domain.SavedChart{
		ID:        row.ID,
		UserID:    row.UserID,
		ChartType: domain.ChartKind(row.ChartType),
		ChartData: json.RawMessage(row.ChartData),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}

// Upsert одна запись на (user_id, chart_type): повторное сохранение перезаписывает данные
func (r *Repository) Upsert(ctx context.Context, userID uuid.UUID, kind domain.ChartKind, payload json.RawMessage) error {
	if !json.Valid(payload) {
		return fmt.Errorf("chart payload for %s is not valid JSON", kind)
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (%s, %s) DO UPDATE SET %s = EXCLUDED.%s, %s = NOW()`,
		r.columns.TableName,
		r.allColumns(),
		r.columns.UserID,
		r.columns.ChartType,
		r.columns.ChartData,
		r.columns.ChartData,
		r.columns.UpdatedAt)
	if err := r.db.Exec(ctx, query, uuid.New(), userID, string(kind), string(payload)); err != nil {
		r.Log.Error("failed to upsert saved chart", "error", err, "user_id", userID, "chart_type", kind)
		return fmt.Errorf("failed to upsert saved chart: %w", err)
	}
	r.Log.Debug("saved chart upserted", "user_id", userID, "chart_type", kind, "size", len(payload))
	return nil
}

func (r *Repository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		r.columns.TableName,
		r.columns.UserID)
	deleted, err := r.db.ExecWithResult(ctx, query, userID)
	if err != nil {
		r.Log.Error("failed to delete saved charts", "error", err, "user_id", userID)
		return 0, fmt.Errorf("failed to delete saved charts: %w", err)
	}
	r.Log.Debug("saved charts deleted", "user_id", userID, "count", deleted)
	return deleted, nil
}
