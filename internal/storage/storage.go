// Package storage puts validated image uploads into an object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pageza/homeaway/backend/internal/types"
	"github.com/pageza/homeaway/backend/internal/validator"
)

// DefaultBucket holds every uploaded image
const DefaultBucket = "home-away"

// PutOptions are passed through to the store with each object
type PutOptions struct {
	ContentType  string
	CacheControl string
}

// ObjectStore is the narrow surface of the external object store
type ObjectStore interface {
	Put(ctx context.Context, bucket, name string, body io.Reader, opts PutOptions) (string, error)
}

// Asset is an uploaded file together with its declared metadata
type Asset struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// UploadError reports a rejected asset or a failed store call
type UploadError struct {
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	return e.Message
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// Uploader validates assets and stores them under collision-resistant names
type Uploader struct {
	store  ObjectStore
	bucket string
	logger *slog.Logger
	now    func() time.Time
}

// NewUploader creates an Uploader writing to bucket
func NewUploader(store ObjectStore, bucket string, logger *slog.Logger) *Uploader {
	if bucket == "" {
		bucket = DefaultBucket
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		store:  store,
		bucket: bucket,
		logger: logger,
		now:    time.Now,
	}
}

// Upload checks the asset and stores it with a single attempt. It returns the
// public URL of the stored object.
func (u *Uploader) Upload(ctx context.Context, asset Asset) (string, error) {
	meta := types.ImageInput{
		Present:     asset.Body != nil,
		Size:        asset.Size,
		ContentType: asset.ContentType,
	}
	if err := validator.ValidateImage(meta); err != nil {
		return "", &UploadError{Message: err.Error(), Err: err}
	}

	name := ObjectName(u.now(), asset.Name)
	url, err := u.store.Put(ctx, u.bucket, name, asset.Body, PutOptions{
		ContentType:  asset.ContentType,
		CacheControl: "3600",
	})
	if err != nil {
		u.logger.Error("image upload failed",
			slog.String("bucket", u.bucket),
			slog.String("object", name),
			slog.Any("error", err))
		return "", &UploadError{Message: "Image upload failed", Err: err}
	}
	if url == "" {
		return "", &UploadError{Message: "Image upload failed", Err: errors.New("store returned no public url")}
	}

	u.logger.Info("image uploaded", slog.String("object", name), slog.Int64("size", asset.Size))
	return url, nil
}

// ObjectName prefixes the original file name with a millisecond timestamp
func ObjectName(at time.Time, original string) string {
	return fmt.Sprintf("%d-%s", at.UnixMilli(), original)
}
