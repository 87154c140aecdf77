package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrMissingSigner means the backend has no credentials suitable for
// producing signed URLs.
var ErrMissingSigner = errors.New("storage: signed url signer not configured")

// Storage is the object store interface behind ad photo handling.
type Storage interface {
	io.Closer

	// PutObject writes data under bucket/key and returns its metadata.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	// GetObject opens the object for reading along with its metadata.
	GetObject(ctx context.Context, bucket, key string, opts GetOptions) (io.ReadCloser, ObjectInfo, error)
	// StatObject fetches metadata only.
	StatObject(ctx context.Context, bucket, key string) (ObjectInfo, error)
	// DeleteObject removes the object.
	DeleteObject(ctx context.Context, bucket, key string) error
	// ListObjects enumerates objects under a prefix.
	ListObjects(ctx context.Context, bucket, prefix string, opts ListOptions) ([]ObjectInfo, error)
	// PresignGet returns a time-limited download URL.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
	// PresignPut returns a time-limited upload URL.
	PresignPut(ctx context.Context, bucket, key string, opts PutOptions, expiry time.Duration) (string, error)
}

// PutOptions configures an upload.
type PutOptions struct {
	// Size is the expected content length.
	Size int64
	// ContentType is the object MIME type.
	ContentType string
	// Metadata carries custom key/value pairs stored with the object.
	Metadata map[string]string
}

// GetOptions configures a download.
type GetOptions struct {
	// Range restricts the read to a byte range when non-nil.
	Range *ByteRange
}

// ListOptions configures listing.
type ListOptions struct {
	// Limit caps the number of results per page.
	Limit int32
	// Token continues a previous listing.
	Token string
}

// ByteRange is an inclusive byte range within an object.
type ByteRange struct {
	Start int64
	End   int64
}

// ObjectInfo is the metadata a backend reports for a stored object.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
	Metadata    map[string]string
	UpdatedAt   time.Time
}
