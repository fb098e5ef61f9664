package profileRepo

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

type profileColumns struct {
	TableName     string
	ID            string
	Name          string
	Gender        string
	BirthDate     string
	BirthTime     string
	BirthPlace    string
	BirthPlaceLat string
	BirthPlaceLng string
	BirthTZOffset string
	AvatarURL     string
	CreatedAt     string
	UpdatedAt     string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns profileColumns
}

func New(db persistence.Persistence, log *slog.Logger) ports.IProfileRepo {
	cols := profileColumns{
		TableName:     "profiles",
		ID:            "id",
		Name:          "name",
		Gender:        "gender",
		BirthDate:     "birth_date",
		BirthTime:     "birth_time",
		BirthPlace:    "birth_place",
		BirthPlaceLat: "birth_place_lat",
		BirthPlaceLng: "birth_place_lng",
		BirthTZOffset: "birth_tz_offset",
		AvatarURL:     "avatar_url",
		CreatedAt:     "created_at",
		UpdatedAt:     "updated_at",
	}
	return &Repository{
		db:      db,
		Log:     log,
		columns: cols,
	}
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.Name,
		r.columns.Gender,
		r.columns.BirthDate,
		r.columns.BirthTime,
		r.columns.BirthPlace,
		r.columns.BirthPlaceLat,
		r.columns.BirthPlaceLng,
		r.columns.BirthTZOffset,
		r.columns.AvatarURL,
		r.columns.CreatedAt,
		r.columns.UpdatedAt)
}

func (r *Repository) Create(ctx context.Context, profile *domain.Profile) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		r.columns.TableName,
		r.allColumns())
	err := r.db.Exec(ctx, query,
		profile.ID,
		profile.Name,
		profile.Gender,
		profile.BirthDate,
		profile.BirthTime,
		profile.BirthPlace,
		profile.BirthPlaceLat,
		profile.BirthPlaceLng,
		profile.BirthTZOffset,
		profile.AvatarURL,
		profile.CreatedAt,
		profile.UpdatedAt)
	if err != nil {
		r.Log.Error("failed to create profile", "error", err, "user_id", profile.ID)
		return fmt.Errorf("failed to create profile: %w", err)
	}
	r.Log.Debug("profile created successfully", "user_id", profile.ID)
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	var profile domain.Profile
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.ID)
	if err := r.db.Get(ctx, &profile, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.Log.Warn("profile not found", "user_id", id)
			return nil, fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
		}
		r.Log.Error("failed to get profile by id", "error", err, "user_id", id)
		return nil, fmt.Errorf("failed to get profile by id: %w", err)
	}
	r.Log.Debug("profile retrieved successfully", "user_id", id)
	return &profile, nil
}

// Update перезаписывает всё, кроме id, avatar_url и created_at
func (r *Repository) Update(ctx context.Context, profile *domain.Profile) error {
	query := fmt.Sprintf(`UPDATE %s SET
		%s = $2, %s = $3, %s = $4, %s = $5, %s = $6,
		%s = $7, %s = $8, %s = $9, %s = $10
		WHERE %s = $1`,
		r.columns.TableName,
		r.columns.Name,
		r.columns.Gender,
		r.columns.BirthDate,
		r.columns.BirthTime,
		r.columns.BirthPlace,
		r.columns.BirthPlaceLat,
		r.columns.BirthPlaceLng,
		r.columns.BirthTZOffset,
		r.columns.UpdatedAt,
		r.columns.ID)
	affected, err := r.db.ExecWithResult(ctx, query,
		profile.ID,
		profile.Name,
		profile.Gender,
		profile.BirthDate,
		profile.BirthTime,
		profile.BirthPlace,
		profile.BirthPlaceLat,
		profile.BirthPlaceLng,
		profile.BirthTZOffset,
		profile.UpdatedAt)
	if err != nil {
		r.Log.Error("failed to update profile", "error", err, "user_id", profile.ID)
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if affected == 0 {
		r.Log.Warn("profile not found for update", "user_id", profile.ID)
		return fmt.Errorf("profile %s: %w", profile.ID, domain.ErrNotFound)
	}
	r.Log.Debug("profile updated successfully", "user_id", profile.ID)
	return nil
}

func (r *Repository) SetAvatarURL(ctx context.Context, id uuid.UUID, avatarURL *string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		r.columns.TableName,
		r.columns.AvatarURL,
		r.columns.UpdatedAt,
		r.columns.ID)
	affected, err := r.db.ExecWithResult(ctx, query, id, avatarURL)
	if err != nil {
		r.Log.Error("failed to set avatar url", "error", err, "user_id", id)
		return fmt.Errorf("failed to set avatar url: %w", err)
	}
	if affected == 0 {
		r.Log.Warn("profile not found for avatar update", "user_id", id)
		return fmt.Errorf("profile %s: %w", id, domain.ErrNotFound)
	}
	r.Log.Debug("avatar url updated", "user_id", id, "cleared", avatarURL == nil)
	return nil
}

func (r *Repository) ListAvatarURLs(ctx context.Context) ([]string, error) {
	var urls []string
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s IS NOT NULL`,
		r.columns.AvatarURL,
		r.columns.TableName,
		r.columns.AvatarURL)
	if err := r.db.Select(ctx, &urls, query); err != nil {
		r.Log.Error("failed to list avatar urls", "error", err)
		return nil, fmt.Errorf("failed to list avatar urls: %w", err)
	}
	r.Log.Debug("avatar urls listed", "count", len(urls))
	return urls, nil
}
