package usecase

import (
	"context"
	"log/slog"

	"github.com/anonpersonals/personals/internal/pkg/goerror"
)

// CreateAdRelay mints the anonymous contact address for a newly posted ad and
// persists it together with the poster's real address.
//
// Failures propagate to the caller; the ad keeps its contact email and a
// relay can be minted again on re-post.
func (s *Usecase) CreateAdRelay(ctx context.Context, adID int64, posterEmail string) (string, error) {
	ctx, span := s.startSpan(ctx, "CreateAdRelay")
	defer span.End()

	local, err := randomHex(relayEmailBytes)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate relay email token", "ad_id", adID, "error", err)
		return "", goerror.NewServer(err)
	}

	relayEmail := local + "@" + s.relayDomain()
	if err := s.repoDB.SaveAdRelay(ctx, adID, posterEmail, relayEmail); err != nil {
		slog.ErrorContext(ctx, "failed to repo save ad relay", "ad_id", adID, "error", err)
		return "", goerror.NewServer(err)
	}

	return relayEmail, nil
}
