package pg

import (
	"context"
	"time"

	"github.com/admin/astro-match/internal/pkg/metrics"
	"github.com/jmoiron/sqlx"
)

// DB обёртка над sqlx.DB, реализует persistence.Persistence и пишет латентность запросов
type DB struct {
	Db *sqlx.DB
}

func NewDB(db *sqlx.DB) *DB {
	return &DB{Db: db}
}

// Get одна запись в структуру
func (d *DB) Get(ctx context.Context, dest any, query string, args ...any) error {
	start := time.Now()
	err := d.Db.GetContext(ctx, dest, query, args...)
	metrics.ObserveQuery("get", start, err)
	return err
}

func (d *DB) Select(ctx context.Context, dest any, query string, args ...any) error {
	start := time.Now()
	err := d.Db.SelectContext(ctx, dest, query, args...)
	metrics.ObserveQuery("select", start, err)
	return err
}

func (d *DB) Exec(ctx context.Context, query string, args ...any) error {
	_, err := d.ExecWithResult(ctx, query, args...)
	return err
}

func (d *DB) ExecWithResult(ctx context.Context, query string, args ...any) (int64, error) {
	start := time.Now()
	result, err := d.Db.ExecContext(ctx, query, args...)
	metrics.ObserveQuery("exec", start, err)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (d *DB) PingContext(ctx context.Context) error {
	return d.Db.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.Db.Close()
}
