package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Host      string `envconfig:"HOST"` // localhost:9000
	AccessKey string `envconfig:"ACCESS_KEY"`
	SecretKey string `envconfig:"SECRET_KEY"`
	Bucket    string `envconfig:"BUCKET" default:"avatars"`
	UseSSL    bool   `envconfig:"USE_SSL" default:"false"`
	// PublicBaseURL адрес, по которому бакет отдаётся наружу (CDN или сам MinIO)
	PublicBaseURL string `envconfig:"PUBLIC_BASE_URL"`
}

func (c *Config) Enabled() bool {
	return c != nil && c.Host != ""
}

// NewClient создаёт MinIO клиент и проверяет, что бакет существует
func (c *Config) NewClient() (*minio.Client, error) {
	client, err := minio.New(c.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
		Secure: c.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, c.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", c.Bucket)
	}

	return client, nil
}

// publicBase базовый URL для ссылок на объекты бакета
func (c *Config) publicBase() string {
	if c.PublicBaseURL != "" {
		return c.PublicBaseURL
	}
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, c.Host, c.Bucket)
}
