package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anonpersonals/personals/internal/board/entity"
	"github.com/anonpersonals/personals/internal/pkg/goerror"
)

type VoteCastInput struct {
	AdID     int64  `validate:"required,gt=0"`
	Type     string `validate:"required,oneof=up down"`
	ClientIP string `validate:"required"`
}

// VoteCast records one vote per (ad, identity). Casting the same type again
// is a no-op success; casting the other type flips both tallies.
func (s *Usecase) VoteCast(ctx context.Context, in VoteCastInput) error {
	ctx, span := s.startSpan(ctx, "VoteCast")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	ipHash, err := s.hashIP(in.ClientIP)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash client ip", "error", err)
		return goerror.NewServer(err)
	}

	ad, err := s.repoDB.GetAdByID(ctx, in.AdID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness("Ad not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get ad", "ad_id", in.AdID, "error", err)
		return goerror.NewServer(err)
	}
	if !ad.IsActive {
		return goerror.NewBusiness("Ad not found", goerror.CodeNotFound)
	}

	voteType := entity.ParseVoteType(in.Type)
	now := s.clock.Now()

	existing, err := s.repoDB.GetVote(ctx, in.AdID, ipHash)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get vote", "ad_id", in.AdID, "error", err)
		return goerror.NewServer(err)
	}

	vote := entity.Vote{AdID: in.AdID, IPHash: ipHash, Type: voteType}

	switch {
	case existing == nil:
		if err := s.repoDB.CastVote(ctx, vote); err != nil {
			slog.ErrorContext(ctx, "failed to repo cast vote", "ad_id", in.AdID, "error", err)
			return goerror.NewServer(err)
		}
		if err := s.repoDB.RecordVoteGiven(ctx, ipHash, voteType, now); err != nil {
			slog.ErrorContext(ctx, "failed to repo record vote given", "error", err)
		}
	case existing.Type == voteType:
		// Re-voting the same way changes nothing.
		return nil
	default:
		if err := s.repoDB.FlipVote(ctx, vote); err != nil {
			slog.ErrorContext(ctx, "failed to repo flip vote", "ad_id", in.AdID, "error", err)
			return goerror.NewServer(err)
		}
		if err := s.repoDB.SwapVoteGiven(ctx, ipHash, voteType, now); err != nil {
			slog.ErrorContext(ctx, "failed to repo swap vote given", "error", err)
		}
	}

	return nil
}
