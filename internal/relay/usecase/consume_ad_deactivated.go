package usecase

import (
	"context"
	"log/slog"
)

type ConsumeAdDeactivatedInput struct {
	AdID   int64  `validate:"required,gt=0"`
	Reason string `validate:"required"`
}

// ConsumeAdDeactivated closes every conversation belonging to an ad that was
// deleted, expired, or taken down. A closed conversation's relay code stops
// routing in both directions.
func (s *Usecase) ConsumeAdDeactivated(ctx context.Context, in ConsumeAdDeactivatedInput) error {
	ctx, span := s.startSpan(ctx, "ConsumeAdDeactivated")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		slog.ErrorContext(ctx, "Validation failed", "error", err)
		return nil
	}

	count, err := s.repoDB.DeactivateConversationsByAd(ctx, in.AdID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo deactivate conversations by ad", "ad_id", in.AdID, "error", err)
		return err
	}

	slog.InfoContext(ctx, "deactivated conversations for ad", "ad_id", in.AdID, "reason", in.Reason, "count", count)

	return nil
}
