package persistence

import (
	"context"
)

// Persistence операции репозиториев поверх соединения с БД
type Persistence interface {
	Get(ctx context.Context, dest any, query string, args ...any) error
	Select(ctx context.Context, dest any, query string, args ...any) error
	Exec(ctx context.Context, query string, args ...any) error
	// ExecWithResult возвращает число затронутых строк
	ExecWithResult(ctx context.Context, query string, args ...any) (int64, error)
}
