// Package media stores post images. Uploads are normalised to WebP by a
// Processor and written through a Storage backend (local disk or S3).
package media

import (
	"context"
	"fmt"
	"strings"

	"yatube/internal/config"
)

// Storage persists processed images and returns their public URL.
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewStorage builds the backend selected by MEDIA_BACKEND.
func NewStorage(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.MediaBackend {
	case config.MediaBackendS3:
		return NewS3Storage(ctx, S3Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
	case config.MediaBackendLocal, "":
		return NewLocalStorage(cfg.MediaDir, cfg.MediaURL)
	default:
		return nil, fmt.Errorf("unsupported media backend %q", cfg.MediaBackend)
	}
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
