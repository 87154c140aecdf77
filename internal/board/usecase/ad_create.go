package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/anonpersonals/personals/internal/board/entity"
	"github.com/anonpersonals/personals/internal/pkg/goerror"
)

type AdCreateInput struct {
	Title        string `validate:"required,min=3,max=200"`
	Body         string `validate:"required,min=10,max=10000"`
	Location     string `validate:"required,min=2,max=100"`
	ContactEmail string `validate:"omitempty,email"`
	ClientIP     string `validate:"required"`
}

type AdCreateOutput struct {
	ID          int64
	RelayEmail  string
	RepostCount int32
}

// AdCreate posts a new ad. One active ad per identity; identical re-posts
// carry a visible repost counter. When the poster leaves a contact email the
// relay module mints an anonymous address before the response returns.
func (s *Usecase) AdCreate(ctx context.Context, in AdCreateInput) (*AdCreateOutput, error) {
	ctx, span := s.startSpan(ctx, "AdCreate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ipHash, err := s.hashIP(in.ClientIP)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash client ip", "error", err)
		return nil, goerror.NewServer(err)
	}

	if _, err := s.repoDB.GetActiveAdByIPHash(ctx, ipHash); err == nil {
		return nil, goerror.NewBusiness("You already have an active ad", goerror.CodeConflict)
	} else if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get active ad by ip hash", "error", err)
		return nil, goerror.NewServer(err)
	}

	title := strings.TrimSpace(in.Title)
	body := strings.TrimSpace(in.Body)
	location := strings.TrimSpace(in.Location)

	repostCount, err := s.repoDB.CountIdenticalAds(ctx, ipHash, title, body)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo count identical ads", "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	ad := entity.CreateAd{
		ID:          s.uid.Generate(),
		Title:       title,
		Body:        body,
		Location:    location,
		IPHash:      ipHash,
		RepostCount: repostCount,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.cfg.GetDay("modules.board.ad_ttl_days")),
	}
	if err := s.repoDB.CreateAd(ctx, ad); err != nil {
		slog.ErrorContext(ctx, "failed to repo create ad", "error", err)
		return nil, goerror.NewServer(err)
	}

	var relayEmail string
	if in.ContactEmail != "" {
		if s.relay == nil {
			return nil, goerror.NewBusiness("Contact relay is not available", goerror.CodeConflict)
		}
		relayEmail, err = s.relay.CreateAdRelay(ctx, ad.ID, strings.TrimSpace(in.ContactEmail))
		if err != nil {
			slog.ErrorContext(ctx, "failed to create ad relay", "ad_id", ad.ID, "error", err)
			return nil, err
		}
	}

	if err := s.repoDB.IncrementLocation(ctx, location); err != nil {
		slog.ErrorContext(ctx, "failed to repo increment location", "location", location, "error", err)
	}
	if err := s.repoDB.RecordAdPosted(ctx, ipHash, now); err != nil {
		slog.ErrorContext(ctx, "failed to repo record ad posted", "error", err)
	}

	return &AdCreateOutput{ID: ad.ID, RelayEmail: relayEmail, RepostCount: repostCount}, nil
}
