package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anonpersonals/personals/internal/board/entity"
	"github.com/anonpersonals/personals/internal/pkg/goerror"
)

type AdUpdateInput struct {
	ID       int64  `validate:"required,gt=0"`
	Title    string `validate:"required,min=3,max=200"`
	Body     string `validate:"required,min=10,max=10000"`
	Location string `validate:"required,min=2,max=100"`
	ClientIP string `validate:"required"`
}

// AdUpdate edits an active ad owned by the caller's identity. A mismatched
// identity is indistinguishable from a missing ad.
func (s *Usecase) AdUpdate(ctx context.Context, in AdUpdateInput) error {
	ctx, span := s.startSpan(ctx, "AdUpdate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	ipHash, err := s.hashIP(in.ClientIP)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash client ip", "error", err)
		return goerror.NewServer(err)
	}

	current, err := s.repoDB.GetAdByID(ctx, in.ID)
	if err == nil && current.IsActive && current.Location != strings.TrimSpace(in.Location) && current.IPHash == ipHash {
		// Moving the ad shifts the location index.
		if err := s.repoDB.DecrementLocation(ctx, current.Location); err != nil {
			slog.ErrorContext(ctx, "failed to repo decrement location", "location", current.Location, "error", err)
		}
		if err := s.repoDB.IncrementLocation(ctx, strings.TrimSpace(in.Location)); err != nil {
			slog.ErrorContext(ctx, "failed to repo increment location", "location", in.Location, "error", err)
		}
	}

	found, err := s.repoDB.UpdateAd(ctx, entity.UpdateAd{
		ID:       in.ID,
		IPHash:   ipHash,
		Title:    strings.TrimSpace(in.Title),
		Body:     strings.TrimSpace(in.Body),
		Location: strings.TrimSpace(in.Location),
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo update ad", "ad_id", in.ID, "error", err)
		return goerror.NewServer(err)
	}
	if !found {
		return goerror.NewBusiness("Ad not found", goerror.CodeNotFound)
	}

	return nil
}
