package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/admin/astro-match/internal/ports/storage"
	"github.com/minio/minio-go/v7"
)

// Client обёртка над minio.Client для работы с бакетом
type Client struct {
	client     *minio.Client
	bucket     string
	publicBase string
	log        *slog.Logger
}

func NewClient(client *minio.Client, cfg *Config, log *slog.Logger) storage.IS3Client {
	return &Client{
		client:     client,
		bucket:     cfg.Bucket,
		publicBase: strings.TrimSuffix(cfg.publicBase(), "/"),
		log:        log,
	}
}

func (c *Client) PutFile(ctx context.Context, path string, body io.Reader, size int64, contentType string) error {
	info, err := c.client.PutObject(ctx, c.bucket, path, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s: %w", path, err)
	}

	c.log.Debug("object uploaded", "bucket", c.bucket, "path", path, "size", info.Size)
	return nil
}

func (c *Client) DeleteFile(ctx context.Context, path string) error {
	if err := c.client.RemoveObject(ctx, c.bucket, path, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", path, err)
	}

	c.log.Debug("object removed", "bucket", c.bucket, "path", path)
	return nil
}

// ListFiles получает список файлов по префиксу
func (c *Client) ListFiles(ctx context.Context, prefix string) ([]string, error) {
	var files []string

	objectCh := c.client.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	for object := range objectCh {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects with prefix %s: %w", prefix, object.Err)
		}

		// Пропускаем директории
		if strings.HasSuffix(object.Key, "/") {
			continue
		}
		files = append(files, object.Key)
	}

	return files, nil
}

func (c *Client) PublicURL(path string) string {
	return c.publicBase + "/" + strings.TrimPrefix(path, "/")
}
