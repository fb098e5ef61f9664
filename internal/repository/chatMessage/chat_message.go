package chatMessageRepo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/admin/astro-match/internal/domain"
	"github.com/admin/astro-match/internal/ports/persistence"
	ports "github.com/admin/astro-match/internal/ports/repository"
	"github.com/google/uuid"
)

type chatMessageColumns struct {
	TableName string
	ID        string
	UserID    string
	Message   string
	IsFromAI  string
	CreatedAt string
}

type Repository struct {
	db      persistence.Persistence
	Log     *slog.Logger
	columns chatMessageColumns
}

func New(db persistence.Persistence, log *slog.Logger) ports.IChatMessageRepo {
	return &Repository{
		db:  db,
		Log: log,
		columns: chatMessageColumns{
			TableName: "chat_messages",
			ID:        "id",
			UserID:    "user_id",
			Message:   "message",
			IsFromAI:  "is_from_ai",
			CreatedAt: "created_at",
		},
	}
}

func (r *Repository) allColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s",
		r.columns.ID,
		r.columns.UserID,
		r.columns.Message,
		r.columns.IsFromAI,
		r.columns.CreatedAt)
}

func (r *Repository) Create(ctx context.Context, msg *domain.ChatMessage) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5)`,
		r.columns.TableName,
		r.allColumns())
	if err := r.db.Exec(ctx, query, msg.ID, msg.UserID, msg.Message, msg.IsFromAI, msg.CreatedAt); err != nil {
		r.Log.Error("failed to create chat message", "error", err, "user_id", msg.UserID, "is_from_ai", msg.IsFromAI)
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	r.Log.Debug("chat message created", "message_id", msg.ID, "user_id", msg.UserID, "is_from_ai", msg.IsFromAI)
	return nil
}

// ListByUser в хронологическом порядке
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ChatMessage, error) {
	messages := make([]domain.ChatMessage, 0)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s ASC`,
		r.allColumns(),
		r.columns.TableName,
		r.columns.UserID,
		r.columns.CreatedAt)
	if err := r.db.Select(ctx, &messages, query, userID); err != nil {
		r.Log.Error("failed to list chat messages", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	r.Log.Debug("chat messages listed", "user_id", userID, "count", len(messages))
	return messages, nil
}
