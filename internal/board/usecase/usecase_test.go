package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/anonpersonals/personals/internal/board/entity"
	"github.com/anonpersonals/personals/internal/pkg/config"
	"github.com/anonpersonals/personals/internal/pkg/goerror"
	"github.com/anonpersonals/personals/internal/pkg/hash"
	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/validator"
	"github.com/anonpersonals/personals/internal/shared/event"
)

type stubConfig struct {
	config.Config
	strings   map[string]string
	durations map[string]time.Duration
}

func (c stubConfig) GetString(key string) string        { return c.strings[key] }
func (c stubConfig) GetDay(key string) time.Duration    { return c.durations[key] }
func (c stubConfig) GetMinute(key string) time.Duration { return c.durations[key] }

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

type stubUID struct{ n int64 }

func (s *stubUID) Generate() int64 {
	s.n++
	return s.n
}

type publishedEvent struct {
	AdID   int64
	Reason string
}

type fakeRepoDB struct {
	activeAd     *entity.Ad
	adByID       *entity.Ad
	repostCount  int32
	createdAds   []entity.CreateAd
	updateFound  bool
	updated      []entity.UpdateAd
	deactivated  *entity.Ad
	photoSet     []string
	listAds      []entity.Ad
	expired      []entity.ExpiredAd
	locations    []entity.Location
	incremented  []string
	decremented  []string
	behavior     *entity.PosterBehavior
	postRecorded int
	voteRecorded []entity.VoteType
	voteSwapped  []entity.VoteType
	existingVote *entity.Vote
	cast         []entity.Vote
	flipped      []entity.Vote
}

func (f *fakeRepoDB) CreateAd(_ context.Context, data entity.CreateAd) error {
	f.createdAds = append(f.createdAds, data)
	return nil
}

func (f *fakeRepoDB) GetAdByID(_ context.Context, _ int64) (*entity.Ad, error) {
	if f.adByID == nil {
		return nil, goerror.ErrNotFound
	}
	return f.adByID, nil
}

func (f *fakeRepoDB) GetActiveAdByIPHash(_ context.Context, _ string) (*entity.Ad, error) {
	if f.activeAd == nil {
		return nil, goerror.ErrNotFound
	}
	return f.activeAd, nil
}

func (f *fakeRepoDB) CountIdenticalAds(_ context.Context, _, _, _ string) (int32, error) {
	return f.repostCount, nil
}

func (f *fakeRepoDB) UpdateAd(_ context.Context, data entity.UpdateAd) (bool, error) {
	f.updated = append(f.updated, data)
	return f.updateFound, nil
}

func (f *fakeRepoDB) DeactivateAd(_ context.Context, _ int64, _ string) (*entity.Ad, error) {
	if f.deactivated == nil {
		return nil, goerror.ErrNotFound
	}
	return f.deactivated, nil
}

func (f *fakeRepoDB) SetAdPhoto(_ context.Context, _ int64, _, photoKey string) (bool, error) {
	f.photoSet = append(f.photoSet, photoKey)
	return true, nil
}

func (f *fakeRepoDB) ListAds(_ context.Context, _ entity.AdListFilter) ([]entity.Ad, error) {
	return f.listAds, nil
}

func (f *fakeRepoDB) ExpireAds(_ context.Context, _ time.Time) ([]entity.ExpiredAd, error) {
	return f.expired, nil
}

func (f *fakeRepoDB) ListLocations(_ context.Context) ([]entity.Location, error) {
	return f.locations, nil
}

func (f *fakeRepoDB) IncrementLocation(_ context.Context, name string) error {
	f.incremented = append(f.incremented, name)
	return nil
}

func (f *fakeRepoDB) DecrementLocation(_ context.Context, name string) error {
	f.decremented = append(f.decremented, name)
	return nil
}

func (f *fakeRepoDB) GetPosterBehavior(_ context.Context, _ string) (*entity.PosterBehavior, error) {
	if f.behavior == nil {
		return nil, goerror.ErrNotFound
	}
	return f.behavior, nil
}

func (f *fakeRepoDB) RecordAdPosted(_ context.Context, _ string, _ time.Time) error {
	f.postRecorded++
	return nil
}

func (f *fakeRepoDB) RecordVoteGiven(_ context.Context, _ string, voteType entity.VoteType, _ time.Time) error {
	f.voteRecorded = append(f.voteRecorded, voteType)
	return nil
}

func (f *fakeRepoDB) SwapVoteGiven(_ context.Context, _ string, voteType entity.VoteType, _ time.Time) error {
	f.voteSwapped = append(f.voteSwapped, voteType)
	return nil
}

func (f *fakeRepoDB) GetVote(_ context.Context, _ int64, _ string) (*entity.Vote, error) {
	if f.existingVote == nil {
		return nil, goerror.ErrNotFound
	}
	return f.existingVote, nil
}

func (f *fakeRepoDB) CastVote(_ context.Context, vote entity.Vote) error {
	f.cast = append(f.cast, vote)
	return nil
}

func (f *fakeRepoDB) FlipVote(_ context.Context, vote entity.Vote) error {
	f.flipped = append(f.flipped, vote)
	return nil
}

type fakeMQ struct {
	published []publishedEvent
}

func (f *fakeMQ) PublishAdDeactivated(_ context.Context, adID int64, reason string) error {
	f.published = append(f.published, publishedEvent{AdID: adID, Reason: reason})
	return nil
}

type fakeStorage struct {
	uploads []string
}

func (f *fakeStorage) Upload(_ context.Context, key string, _ io.Reader) error {
	f.uploads = append(f.uploads, key)
	return nil
}

func (f *fakeStorage) PhotoURL(_ context.Context, key string) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

type fakeRelay struct {
	relayEmail string
	err        error
	calls      []string
}

func (f *fakeRelay) CreateAdRelay(_ context.Context, _ int64, posterEmail string) (string, error) {
	f.calls = append(f.calls, posterEmail)
	if f.err != nil {
		return "", f.err
	}
	return f.relayEmail, nil
}

func newTestUsecase(t *testing.T, db *fakeRepoDB, mq *fakeMQ, relay repoRelay) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	return NewBoard(Dependency{
		RepoDB:      db,
		RepoMQ:      mq,
		RepoStorage: &fakeStorage{},
		Relay:       relay,
		Config: stubConfig{
			strings:   map[string]string{"app.web": "https://personals.example.com"},
			durations: map[string]time.Duration{"modules.board.ad_ttl_days": 45 * 24 * time.Hour},
		},
		UID:        &stubUID{},
		Clock:      stubClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		Validator:  v,
		HMAC:       hash.NewHMACSHA256("test-salt"),
		Instrument: instrument.NewNoop(),
	})
}

func errCode(t *testing.T, err error) goerror.Code {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected goerror, got %T: %v", err, err)
	}
	return ge.Code()
}

func TestAdCreate(t *testing.T) {
	in := AdCreateInput{
		Title:    "Vintage bike for sale",
		Body:     "Good condition, new tires, pickup only.",
		Location: "Springfield",
		ClientIP: "203.0.113.9",
	}

	t.Run("Success", func(t *testing.T) {
		db := &fakeRepoDB{}
		uc := newTestUsecase(t, db, &fakeMQ{}, &fakeRelay{})

		out, err := uc.AdCreate(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(db.createdAds) != 1 {
			t.Fatalf("expected one ad created, got %d", len(db.createdAds))
		}
		ad := db.createdAds[0]
		if ad.ExpiresAt.Sub(ad.CreatedAt) != 45*24*time.Hour {
			t.Fatalf("unexpected expiry window: %v", ad.ExpiresAt.Sub(ad.CreatedAt))
		}
		if strings.Contains(ad.IPHash, "203.0.113.9") {
			t.Fatalf("raw ip must never be stored")
		}
		if out.RelayEmail != "" {
			t.Fatalf("no contact email means no relay, got %q", out.RelayEmail)
		}
		if len(db.incremented) != 1 || db.incremented[0] != "Springfield" {
			t.Fatalf("expected location index bump, got %v", db.incremented)
		}
		if db.postRecorded != 1 {
			t.Fatalf("expected poster behavior recorded")
		}
	})

	t.Run("OneActiveAdPerIdentity", func(t *testing.T) {
		db := &fakeRepoDB{activeAd: &entity.Ad{ID: 1, IsActive: true}}
		uc := newTestUsecase(t, db, &fakeMQ{}, &fakeRelay{})

		_, err := uc.AdCreate(context.Background(), in)
		if code := errCode(t, err); code != goerror.CodeConflict {
			t.Fatalf("expected conflict, got %v", code)
		}
		if len(db.createdAds) != 0 {
			t.Fatalf("second active ad must not be created")
		}
	})

	t.Run("ContactEmailMintsRelay", func(t *testing.T) {
		db := &fakeRepoDB{}
		relay := &fakeRelay{relayEmail: "a1b2c3d4e5f60708@relay.example.com"}
		uc := newTestUsecase(t, db, &fakeMQ{}, relay)

		withContact := in
		withContact.ContactEmail = "seller@example.org"

		out, err := uc.AdCreate(context.Background(), withContact)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.RelayEmail != relay.relayEmail {
			t.Fatalf("expected relay email in output, got %q", out.RelayEmail)
		}
		if len(relay.calls) != 1 || relay.calls[0] != "seller@example.org" {
			t.Fatalf("relay called with %v", relay.calls)
		}
	})

	t.Run("RepostCountCarried", func(t *testing.T) {
		db := &fakeRepoDB{repostCount: 3}
		uc := newTestUsecase(t, db, &fakeMQ{}, &fakeRelay{})

		out, err := uc.AdCreate(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.RepostCount != 3 || db.createdAds[0].RepostCount != 3 {
			t.Fatalf("expected repost count 3, got %d", out.RepostCount)
		}
	})

	t.Run("RelayDisabled", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{}, &fakeMQ{}, nil)

		withContact := in
		withContact.ContactEmail = "seller@example.org"

		_, err := uc.AdCreate(context.Background(), withContact)
		if code := errCode(t, err); code != goerror.CodeConflict {
			t.Fatalf("expected conflict when relay is unavailable, got %v", code)
		}
	})
}

func TestVoteCast(t *testing.T) {
	activeAd := &entity.Ad{ID: 42, IsActive: true}
	in := VoteCastInput{AdID: 42, Type: "up", ClientIP: "203.0.113.9"}

	t.Run("FirstVote", func(t *testing.T) {
		db := &fakeRepoDB{adByID: activeAd}
		uc := newTestUsecase(t, db, &fakeMQ{}, &fakeRelay{})

		if err := uc.VoteCast(context.Background(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(db.cast) != 1 || db.cast[0].Type != entity.VoteTypeUp {
			t.Fatalf("expected one up vote, got %+v", db.cast)
		}
		if len(db.voteRecorded) != 1 {
			t.Fatalf("expected poster behavior recorded")
		}
	})

	t.Run("SameVoteIsNoOp", func(t *testing.T) {
		db := &fakeRepoDB{adByID: activeAd, existingVote: &entity.Vote{AdID: 42, Type: entity.VoteTypeUp}}
		uc := newTestUsecase(t, db, &fakeMQ{}, &fakeRelay{})

		if err := uc.VoteCast(context.Background(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(db.cast) != 0 || len(db.flipped) != 0 {
			t.Fatalf("re-voting the same way must change nothing")
		}
	})

	t.Run("OppositeVoteFlips", func(t *testing.T) {
		db := &fakeRepoDB{adByID: activeAd, existingVote: &entity.Vote{AdID: 42, Type: entity.VoteTypeDown}}
		uc := newTestUsecase(t, db, &fakeMQ{}, &fakeRelay{})

		if err := uc.VoteCast(context.Background(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(db.flipped) != 1 || db.flipped[0].Type != entity.VoteTypeUp {
			t.Fatalf("expected vote flipped to up, got %+v", db.flipped)
		}
		if len(db.voteSwapped) != 1 {
			t.Fatalf("expected behavior tallies swapped")
		}
	})

	t.Run("InactiveAd", func(t *testing.T) {
		db := &fakeRepoDB{adByID: &entity.Ad{ID: 42, IsActive: false}}
		uc := newTestUsecase(t, db, &fakeMQ{}, &fakeRelay{})

		err := uc.VoteCast(context.Background(), in)
		if code := errCode(t, err); code != goerror.CodeNotFound {
			t.Fatalf("expected not found, got %v", code)
		}
	})

	t.Run("InvalidType", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{adByID: activeAd}, &fakeMQ{}, &fakeRelay{})

		bad := in
		bad.Type = "sideways"
		if err := uc.VoteCast(context.Background(), bad); err == nil {
			t.Fatalf("expected validation error")
		}
	})
}

func TestAdDelete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		db := &fakeRepoDB{deactivated: &entity.Ad{ID: 42, Location: "Springfield"}}
		mq := &fakeMQ{}
		uc := newTestUsecase(t, db, mq, &fakeRelay{})

		if err := uc.AdDelete(context.Background(), AdDeleteInput{ID: 42, ClientIP: "203.0.113.9"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(db.decremented) != 1 || db.decremented[0] != "Springfield" {
			t.Fatalf("expected location index decrement, got %v", db.decremented)
		}
		if len(mq.published) != 1 || mq.published[0].Reason != event.AdDeactivatedReasonDeleted {
			t.Fatalf("expected deactivation event published, got %+v", mq.published)
		}
	})

	t.Run("NotOwnerOrMissing", func(t *testing.T) {
		mq := &fakeMQ{}
		uc := newTestUsecase(t, &fakeRepoDB{}, mq, &fakeRelay{})

		err := uc.AdDelete(context.Background(), AdDeleteInput{ID: 42, ClientIP: "203.0.113.9"})
		if code := errCode(t, err); code != goerror.CodeNotFound {
			t.Fatalf("expected not found, got %v", code)
		}
		if len(mq.published) != 0 {
			t.Fatalf("no event for a failed delete")
		}
	})
}

func TestCleanup(t *testing.T) {
	db := &fakeRepoDB{expired: []entity.ExpiredAd{
		{ID: 1, Location: "Springfield"},
		{ID: 2, Location: "Shelbyville"},
	}}
	mq := &fakeMQ{}
	uc := newTestUsecase(t, db, mq, &fakeRelay{})

	out, err := uc.Cleanup(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Expired != 2 {
		t.Fatalf("expected 2 expired, got %d", out.Expired)
	}
	if len(db.decremented) != 2 {
		t.Fatalf("expected both locations decremented, got %v", db.decremented)
	}
	for _, ev := range mq.published {
		if ev.Reason != event.AdDeactivatedReasonExpired {
			t.Fatalf("expected expired reason, got %+v", ev)
		}
	}
	if len(mq.published) != 2 {
		t.Fatalf("expected 2 events, got %d", len(mq.published))
	}
}
