package objstore

import (
	"context"
	"io"
	"time"

	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/storage"
	"go.opentelemetry.io/otel/codes"
)

// Store adapts the object storage driver for ad photos: one bucket, uploads
// by key, presigned GETs for display.
type Store struct {
	client storage.Storage
	bucket string
	expiry time.Duration
	ins    instrument.Instrumentation
}

func New(client storage.Storage, bucket string, expiry time.Duration, ins instrument.Instrumentation) *Store {
	return &Store{client: client, bucket: bucket, expiry: expiry, ins: ins}
}

func (s *Store) Upload(ctx context.Context, key string, r io.Reader) error {
	ctx, span := s.ins.Tracer("board.outbound.objstore").Start(ctx, "Upload")
	defer span.End()

	_, err := s.client.PutObject(ctx, s.bucket, key, r, storage.PutOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (s *Store) PhotoURL(ctx context.Context, key string) (string, error) {
	ctx, span := s.ins.Tracer("board.outbound.objstore").Start(ctx, "PhotoURL")
	defer span.End()

	url, err := s.client.PresignGet(ctx, s.bucket, key, s.expiry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return url, nil
}
