package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"cuponera_backend/internal/config"
)

// Storage persists broadcast attachments (images, videos, PDFs) and hands
// out the URLs the dispatcher puts on outgoing messages.
type Storage interface {
	Save(ctx context.Context, path string, reader io.Reader, contentType string) error
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	URL(ctx context.Context, path string) (string, error)
	SignedURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

// NewStorage builds the backend named by the configuration.
func NewStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
