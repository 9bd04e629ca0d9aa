package document

import (
	"context"
	"time"
)

// ObjectStorage is the object store holding document bytes. Implemented by
// the infrastructure layer (S3-compatible stores, in-memory).
type ObjectStorage interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiry
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)

	// GenerateDownloadURL returns a presigned GET URL and its expiry
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)

	// HeadObject reports whether the object exists and its size in bytes
	HeadObject(ctx context.Context, storageKey string) (size int64, exists bool, err error)

	// Upload stores data directly, used for server-generated files
	Upload(ctx context.Context, storageKey string, data []byte, contentType string) error

	// DeleteObject removes the object; deleting a missing object succeeds
	DeleteObject(ctx context.Context, storageKey string) error
}
