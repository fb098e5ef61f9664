package storage

import (
	"context"
	"io"
)

// IS3Client интерфейс для работы с S3-совместимым хранилищем (MinIO)
type IS3Client interface {
	PutFile(ctx context.Context, path string, body io.Reader, size int64, contentType string) error
	DeleteFile(ctx context.Context, path string) error
	ListFiles(ctx context.Context, prefix string) ([]string, error)
	PublicURL(path string) string
}
