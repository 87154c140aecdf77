package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/anonpersonals/personals/internal/pkg/goerror"
)

type AdPhotoUploadInput struct {
	ID       int64 `validate:"required,gt=0"`
	ClientIP string `validate:"required"`
	File     io.Reader
}

// AdPhotoUpload attaches a single photo to an ad owned by the caller's
// identity. The object key is deterministic so a re-upload replaces the
// previous photo.
func (s *Usecase) AdPhotoUpload(ctx context.Context, in AdPhotoUploadInput) error {
	ctx, span := s.startSpan(ctx, "AdPhotoUpload")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}
	if in.File == nil {
		return goerror.NewInvalidFormat("Missing photo file")
	}

	ipHash, err := s.hashIP(in.ClientIP)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash client ip", "error", err)
		return goerror.NewServer(err)
	}

	key := fmt.Sprintf("ads/%d", in.ID)
	if err := s.repoStorage.Upload(ctx, key, in.File); err != nil {
		slog.ErrorContext(ctx, "failed to upload ad photo", "ad_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	found, err := s.repoDB.SetAdPhoto(ctx, in.ID, ipHash, key)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo set ad photo", "ad_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !found {
		return goerror.NewBusiness("Ad not found", goerror.CodeNotFound)
	}

	return nil
}
