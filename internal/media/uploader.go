package media

import (
	"context"
	"log/slog"
	"path"

	"yatube/internal/middleware"
	"yatube/internal/models"
	"yatube/internal/observability"

	"github.com/google/uuid"
)

// KeyPrefix is where post images live inside the storage backend.
const KeyPrefix = "posts"

// Uploader processes post images and hands them to a Storage.
type Uploader struct {
	proc  *Processor
	store Storage
}

// NewUploader wires a processor to a storage backend.
func NewUploader(proc *Processor, store Storage) *Uploader {
	return &Uploader{proc: proc, store: store}
}

// Upload stores content as posts/<uuid>.webp and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, content []byte, declaredType string) (string, error) {
	data, err := u.proc.Process(content, declaredType)
	if err != nil {
		return "", err
	}

	key := path.Join(KeyPrefix, uuid.NewString()+".webp")
	url, err := u.store.Put(ctx, key, data, ContentType)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "media upload failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return "", models.NewInternalError(err)
	}

	observability.MediaUploadBytes.Observe(float64(len(data)))
	return url, nil
}
