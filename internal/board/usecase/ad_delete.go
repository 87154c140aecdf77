package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anonpersonals/personals/internal/pkg/goerror"
	"github.com/anonpersonals/personals/internal/shared/event"
)

type AdDeleteInput struct {
	ID       int64  `validate:"required,gt=0"`
	ClientIP string `validate:"required"`
}

// AdDelete soft-deletes an ad owned by the caller's identity and tells the
// relay to close its conversations.
func (s *Usecase) AdDelete(ctx context.Context, in AdDeleteInput) error {
	ctx, span := s.startSpan(ctx, "AdDelete")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	ipHash, err := s.hashIP(in.ClientIP)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash client ip", "error", err)
		return goerror.NewServer(err)
	}

	ad, err := s.repoDB.DeactivateAd(ctx, in.ID, ipHash)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Ad not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo deactivate ad", "ad_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}

	if err := s.repoDB.DecrementLocation(ctx, ad.Location); err != nil {
		slog.ErrorContext(ctx, "failed to repo decrement location", "location", ad.Location, "error", err)
	}

	s.publishDeactivated(ctx, ad.ID, event.AdDeactivatedReasonDeleted)

	return nil
}
