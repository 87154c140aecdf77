package usecase

import (
	"context"
	"log/slog"

	"github.com/anonpersonals/personals/internal/pkg/goerror"
	"github.com/anonpersonals/personals/internal/shared/event"
)

type CleanupOutput struct {
	Expired int64
}

// Cleanup deactivates every ad past its expiry. It runs from the periodic
// sweeper and from the admin endpoint; both paths are identical.
func (s *Usecase) Cleanup(ctx context.Context) (*CleanupOutput, error) {
	ctx, span := s.startSpan(ctx, "Cleanup")
	defer span.End()

	expired, err := s.repoDB.ExpireAds(ctx, s.clock.Now())
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo expire ads", "error", err)
		return nil, goerror.NewServer(err)
	}

	for _, ad := range expired {
		if err := s.repoDB.DecrementLocation(ctx, ad.Location); err != nil {
			slog.ErrorContext(ctx, "failed to repo decrement location", "location", ad.Location, "error", err)
		}
		s.publishDeactivated(ctx, ad.ID, event.AdDeactivatedReasonExpired)
	}

	if len(expired) > 0 {
		slog.InfoContext(ctx, "expired ads swept", "count", len(expired))
	}

	return &CleanupOutput{Expired: int64(len(expired))}, nil
}
