package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anonpersonals/personals/internal/board/entity"
	"github.com/anonpersonals/personals/internal/pkg/goerror"
)

type AdDetailInput struct {
	ID int64 `validate:"required,gt=0"`
}

type AdDetailOutput struct {
	Ad       entity.Ad
	PhotoURL string
	Poster   entity.PosterBehavior
}

// AdDetail returns an active ad with the poster's aggregate behavior. The
// raw contact address never leaves this layer; only the relay address does.
func (s *Usecase) AdDetail(ctx context.Context, in AdDetailInput) (*AdDetailOutput, error) {
	ctx, span := s.startSpan(ctx, "AdDetail")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ad, err := s.repoDB.GetAdByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Ad not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get ad", "ad_id", in.ID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ad.IsActive {
		return nil, goerror.NewBusiness("Ad not found", goerror.CodeNotFound)
	}

	out := &AdDetailOutput{Ad: *ad}
	out.Ad.ContactEmail = ""

	if ad.PhotoKey != "" {
		url, err := s.repoStorage.PhotoURL(ctx, ad.PhotoKey)
		if err != nil {
			slog.ErrorContext(ctx, "failed to presign ad photo", "ad_id", ad.ID, "error", err)
		} else {
			out.PhotoURL = url
		}
	}

	poster, err := s.repoDB.GetPosterBehavior(ctx, ad.IPHash)
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get poster behavior", "ad_id", ad.ID, "error", err)
	}
	if poster != nil {
		out.Poster = *poster
	}

	return out, nil
}
