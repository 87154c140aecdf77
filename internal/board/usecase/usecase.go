package usecase

import (
	"context"
	"encoding/hex"
	"io"
	"log/slog"
	"time"

	"github.com/anonpersonals/personals/internal/board/entity"
	"github.com/anonpersonals/personals/internal/pkg/clock"
	"github.com/anonpersonals/personals/internal/pkg/config"
	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/uid"
	"github.com/anonpersonals/personals/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	CreateAd(ctx context.Context, data entity.CreateAd) error
	GetAdByID(ctx context.Context, id int64) (*entity.Ad, error)
	GetActiveAdByIPHash(ctx context.Context, ipHash string) (*entity.Ad, error)
	CountIdenticalAds(ctx context.Context, ipHash, title, body string) (int32, error)
	UpdateAd(ctx context.Context, data entity.UpdateAd) (bool, error)
	DeactivateAd(ctx context.Context, id int64, ipHash string) (*entity.Ad, error)
	SetAdPhoto(ctx context.Context, id int64, ipHash, photoKey string) (bool, error)
	ListAds(ctx context.Context, filter entity.AdListFilter) ([]entity.Ad, error)
	ExpireAds(ctx context.Context, now time.Time) ([]entity.ExpiredAd, error)

	ListLocations(ctx context.Context) ([]entity.Location, error)
	IncrementLocation(ctx context.Context, name string) error
	DecrementLocation(ctx context.Context, name string) error

	GetPosterBehavior(ctx context.Context, ipHash string) (*entity.PosterBehavior, error)
	RecordAdPosted(ctx context.Context, ipHash string, at time.Time) error
	RecordVoteGiven(ctx context.Context, ipHash string, voteType entity.VoteType, at time.Time) error
	SwapVoteGiven(ctx context.Context, ipHash string, voteType entity.VoteType, at time.Time) error

	GetVote(ctx context.Context, adID int64, ipHash string) (*entity.Vote, error)
	CastVote(ctx context.Context, vote entity.Vote) error
	FlipVote(ctx context.Context, vote entity.Vote) error
}

type repoMQ interface {
	PublishAdDeactivated(ctx context.Context, adID int64, reason string) error
}

type repoStorage interface {
	Upload(ctx context.Context, key string, r io.Reader) error
	PhotoURL(ctx context.Context, key string) (string, error)
}

// repoRelay is satisfied by the relay module's usecase.
type repoRelay interface {
	CreateAdRelay(ctx context.Context, adID int64, posterEmail string) (string, error)
}

type ipHasher interface {
	Hash(str string) ([]byte, error)
}

type Usecase struct {
	repoDB      repoDB
	repoMQ      repoMQ
	repoStorage repoStorage
	relay       repoRelay
	cfg         config.Config
	uid         uid.NumberID
	clock       clock.Clocker
	validator   validator.Validator
	hmac        ipHasher
	ins         instrument.Instrumentation
}

type Dependency struct {
	RepoDB      repoDB
	RepoMQ      repoMQ
	RepoStorage repoStorage
	Relay       repoRelay
	Config      config.Config
	UID         uid.NumberID
	Clock       clock.Clocker
	Validator   validator.Validator
	HMAC        ipHasher
	Instrument  instrument.Instrumentation
}

func NewBoard(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:      dep.RepoDB,
		repoMQ:      dep.RepoMQ,
		repoStorage: dep.RepoStorage,
		relay:       dep.Relay,
		cfg:         dep.Config,
		uid:         dep.UID,
		clock:       dep.Clock,
		validator:   dep.Validator,
		hmac:        dep.HMAC,
		ins:         dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("board.usecase").Start(ctx, name)
}

// hashIP turns a client address into the anonymous identity used everywhere
// the board needs ownership or dedup. Raw addresses are never stored.
func (s *Usecase) hashIP(ip string) (string, error) {
	sum, err := s.hmac.Hash(ip)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

func (s *Usecase) publishDeactivated(ctx context.Context, adID int64, reason string) {
	if err := s.repoMQ.PublishAdDeactivated(ctx, adID, reason); err != nil {
		slog.ErrorContext(ctx, "failed to publish ad deactivated", "ad_id", adID, "reason", reason, "error", err)
	}
}
