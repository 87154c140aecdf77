package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Supported storage drivers, matched against the "storage.driver" setting.
const (
	DriverS3    = "s3"
	DriverGCS   = "gcs"
	DriverMinIO = "minio"
)

// ErrUnknownDriver reports a driver name no backend claims.
var ErrUnknownDriver = errors.New("storage: unknown driver")

// FactoryOptions carries the per-backend configuration. Only the section
// for the selected driver needs to be filled in.
type FactoryOptions struct {
	S3    S3Options
	GCS   GCSOptions
	MinIO MinIOOptions
}

// NewFromDriver picks and constructs the Storage backend named by driver.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Storage, error) {
	switch strings.ToLower(driver) {
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverGCS:
		return NewGCS(ctx, opts.GCS)
	case DriverMinIO:
		return NewMinIO(opts.MinIO)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}
