package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/anonpersonals/personals/internal/board/entity"
	"github.com/anonpersonals/personals/internal/pkg/goerror"
)

const adPageSize = 20

type AdListInput struct {
	Search   string `validate:"omitempty,max=200"`
	Location string `validate:"omitempty,max=100"`
	Sort     string `validate:"omitempty,oneof=recent popular controversial"`
	Page     int32  `validate:"omitempty,gte=1"`
}

type AdListOutput struct {
	Ads       []entity.Ad
	Locations []entity.Location
	Page      int32
	HasMore   bool
}

// AdList browses active ads with optional search and location filters. Pages
// are fixed at twenty rows; one extra row is fetched to detect more pages.
func (s *Usecase) AdList(ctx context.Context, in AdListInput) (*AdListOutput, error) {
	ctx, span := s.startSpan(ctx, "AdList")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	page := in.Page
	if page < 1 {
		page = 1
	}

	ads, err := s.repoDB.ListAds(ctx, entity.AdListFilter{
		Search:   strings.TrimSpace(in.Search),
		Location: strings.TrimSpace(in.Location),
		Sort:     entity.ParseSort(in.Sort),
		Limit:    adPageSize + 1,
		Offset:   (page - 1) * adPageSize,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list ads", "error", err)
		return nil, goerror.NewServer(err)
	}

	hasMore := len(ads) > adPageSize
	if hasMore {
		ads = ads[:adPageSize]
	}

	locations, err := s.repoDB.ListLocations(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list locations", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &AdListOutput{Ads: ads, Locations: locations, Page: page, HasMore: hasMore}, nil
}
