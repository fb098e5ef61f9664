package matchRepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/ports/persistence"
	ports "github.com/admin/astro-match/internal/ports/repository"
	"github.com/google/uuid"
)

type matchColumns struct {
	TableName            string
	ID                   string
	UserID               string
	PartnerName          string
	PartnerBirthDate     string
	PartnerBirthTime     string
	PartnerBirthPlace    string
	PartnerBirthPlaceLat string
	PartnerBirthPlaceLng string
	CompatibilityScore   string
	CreatedAt            string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns matchColumns
}

func New(db persistence.Persistence, log *slog.Logger) ports.IMatchRepo {
	cols := matchColumns{
		TableName:            "matches",
		ID:                   "id",
		UserID:               "user_id",
		PartnerName:          "partner_name",
		PartnerBirthDate:     "partner_birth_date",
		PartnerBirthTime:     "partner_birth_time",
		PartnerBirthPlace:    "partner_birth_place",
		PartnerBirthPlaceLat: "partner_birth_place_lat",
		PartnerBirthPlaceLng: "partner_birth_place_lng",
		CompatibilityScore:   "compatibility_score",
		CreatedAt:            "created_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.UserID,
		r.columns.PartnerName,
		r.columns.PartnerBirthDate,
		r.columns.PartnerBirthTime,
		r.columns.PartnerBirthPlace,
		r.columns.PartnerBirthPlaceLat,
		r.columns.PartnerBirthPlaceLng,
		r.columns.CompatibilityScore,
		r.columns.CreatedAt)
}

func (r *Repository) Create(ctx context.Context, match *domain.Match) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		match.ID,
		match.UserID,
		match.PartnerName,
		match.PartnerBirthDate,
		match.PartnerBirthTime,
		match.PartnerBirthPlace,
		match.PartnerBirthPlaceLat,
		match.PartnerBirthPlaceLng,
		match.CompatibilityScore,
		match.CreatedAt)
	if err != nil {
		r.Log.Error("failed to create match", "error", err, "user_id", match.UserID)
		return fmt.Errorf("failed to create match: %w", err)
	}
	r.Log.Debug("match created successfully", "match_id", match.ID, "user_id", match.UserID)
	return nil
}

// ListByUser новые сверху
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Match, error) {
	matches := make([]domain.Match, 0)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s DESC`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.UserID,
		r.columns.CreatedAt)
	if err := r.db.Select(ctx, &matches, query, userID); err != nil {
		r.Log.Error("failed to list matches", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	r.Log.Debug("matches listed", "user_id", userID, "count", len(matches))
	return matches, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Match, error) {
	var match domain.Match
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	if err := r.db.Get(ctx, &match, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("match not found", "match_id", id)
			return nil, fmt.Errorf("match %s: %w", id, domain.ErrNotFound)
		}
		r.Log.Error("failed to get match by id", "error", err, "match_id", id)
		return nil, fmt.Errorf("failed to get match by id: %w", err)
	}
	return &match, nil
}
