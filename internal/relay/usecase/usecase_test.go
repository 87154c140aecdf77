package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anonpersonals/personals/internal/pkg/config"
	"github.com/anonpersonals/personals/internal/pkg/goerror"
	"github.com/anonpersonals/personals/internal/pkg/idempotency"
	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/mail"
	"github.com/anonpersonals/personals/internal/pkg/ratelimit"
	"github.com/anonpersonals/personals/internal/pkg/validator"
	"github.com/anonpersonals/personals/internal/relay/entity"
)

type stubConfig struct {
	config.Config
	values map[string]string
}

func (c stubConfig) GetString(key string) string { return c.values[key] }

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

type stubUID struct{ n int64 }

func (s *stubUID) Generate() int64 {
	s.n++
	return s.n
}

type fakeRepoDB struct {
	adContact    *entity.AdContact
	adContactErr error

	existing      *entity.Conversation
	existingLater *entity.Conversation
	senderCalls   int

	byCode    *entity.Conversation
	byCodeErr error

	createErr error
	created   []entity.Conversation
	touched   []int64

	savedAdID      int64
	savedContact   string
	savedRelay     string
	savedRelayErr  error

	deactivatedCodes []string
	deactivateFound  bool
	deactivatedAds   []int64

	deliveries []entity.CreateDelivery
	updates    []entity.UpdateDelivery

	listed      []entity.Delivery
	listedCode  string
	listedLimit int32
}

func (f *fakeRepoDB) GetAdContact(_ context.Context, _ int64) (*entity.AdContact, error) {
	if f.adContactErr != nil {
		return nil, f.adContactErr
	}
	if f.adContact == nil {
		return nil, goerror.ErrNotFound
	}
	return f.adContact, nil
}

func (f *fakeRepoDB) SaveAdRelay(_ context.Context, adID int64, contactEmail, relayEmail string) error {
	if f.savedRelayErr != nil {
		return f.savedRelayErr
	}
	f.savedAdID = adID
	f.savedContact = contactEmail
	f.savedRelay = relayEmail
	return nil
}

func (f *fakeRepoDB) GetActiveConversationByAdSender(_ context.Context, _ int64, _ string) (*entity.Conversation, error) {
	f.senderCalls++
	if f.senderCalls > 1 && f.existingLater != nil {
		return f.existingLater, nil
	}
	if f.existing == nil {
		return nil, goerror.ErrNotFound
	}
	return f.existing, nil
}

func (f *fakeRepoDB) GetActiveConversationByCode(_ context.Context, _ string) (*entity.Conversation, error) {
	if f.byCodeErr != nil {
		return nil, f.byCodeErr
	}
	if f.byCode == nil {
		return nil, goerror.ErrNotFound
	}
	return f.byCode, nil
}

func (f *fakeRepoDB) CreateConversation(_ context.Context, conv entity.Conversation) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, conv)
	return nil
}

func (f *fakeRepoDB) TouchConversation(_ context.Context, id int64, _ time.Time) error {
	f.touched = append(f.touched, id)
	return nil
}

func (f *fakeRepoDB) DeactivateConversationByCode(_ context.Context, relayCode string) (bool, error) {
	f.deactivatedCodes = append(f.deactivatedCodes, relayCode)
	return f.deactivateFound, nil
}

func (f *fakeRepoDB) DeactivateConversationsByAd(_ context.Context, adID int64) (int64, error) {
	f.deactivatedAds = append(f.deactivatedAds, adID)
	return 2, nil
}

func (f *fakeRepoDB) CreateDelivery(_ context.Context, data entity.CreateDelivery) error {
	f.deliveries = append(f.deliveries, data)
	return nil
}

func (f *fakeRepoDB) UpdateDeliveryStatus(_ context.Context, data entity.UpdateDelivery) error {
	f.updates = append(f.updates, data)
	return nil
}

func (f *fakeRepoDB) ListDeliveriesByConversationCode(_ context.Context, relayCode string, limit int32) ([]entity.Delivery, error) {
	f.listedCode = relayCode
	f.listedLimit = limit
	return f.listed, nil
}

type fakeMail struct {
	sent    []mail.Message
	err     error
	healthy bool
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) (mail.SendResult, error) {
	if f.err != nil {
		return mail.SendResult{}, f.err
	}
	f.sent = append(f.sent, msg)
	return mail.SendResult{MessageID: "msg-1", Provider: "fake"}, nil
}

func (f *fakeMail) Test(_ context.Context) bool { return f.healthy }

type fakeLimiter struct {
	allowed bool
	err     error
}

func (f *fakeLimiter) Allow(_ context.Context, _ string) (ratelimit.Result, error) {
	if f.err != nil {
		return ratelimit.Result{}, f.err
	}
	return ratelimit.Result{Allowed: f.allowed}, nil
}

type fakeIdem struct {
	state     idempotency.State
	completed []string
	failed    []string
}

func (f *fakeIdem) Acquire(_ context.Context, _ string, _ time.Duration) (idempotency.State, error) {
	return f.state, nil
}

func (f *fakeIdem) MarkCompleted(_ context.Context, key string, _ time.Duration) error {
	f.completed = append(f.completed, key)
	return nil
}

func (f *fakeIdem) MarkFailed(_ context.Context, key string, _ time.Duration) error {
	f.failed = append(f.failed, key)
	return nil
}

func (f *fakeIdem) Exec(context.Context, string, func(context.Context) error, ...idempotency.Option) error {
	return nil
}

func newTestUsecase(t *testing.T, db *fakeRepoDB, mailer *fakeMail, lim *fakeLimiter, idem *fakeIdem) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	return NewRelay(Dependency{
		RepoDB:   db,
		RepoMail: mailer,
		Config: stubConfig{values: map[string]string{
			"modules.relay.domain": "relay.example.com",
			"app.web":              "https://personals.example.com",
			"mail.driver":          "smtp",
		}},
		UID:        &stubUID{},
		Clock:      stubClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		Validator:  v,
		Limiter:    lim,
		Idem:       idem,
		Instrument: instrument.NewNoop(),
	})
}

func activeAd() *entity.AdContact {
	return &entity.AdContact{
		ID:           42,
		Title:        "Vintage bike",
		ContactEmail: "seller@example.org",
		RelayEmail:   "a1b2c3d4e5f60708@relay.example.com",
		IsActive:     true,
	}
}

func errCode(t *testing.T, err error) goerror.Code {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("expected goerror, got %T: %v", err, err)
	}
	return ge.Code()
}

func TestSendMessage(t *testing.T) {
	in := SendMessageInput{
		AdID:        42,
		SenderEmail: "buyer@example.net",
		SenderName:  "Sam",
		Subject:     "Still available?",
		Message:     "Is the bike still for sale?",
	}

	t.Run("NewConversation", func(t *testing.T) {
		db := &fakeRepoDB{adContact: activeAd()}
		mailer := &fakeMail{}
		uc := newTestUsecase(t, db, mailer, &fakeLimiter{allowed: true}, &fakeIdem{})

		out, err := uc.SendMessage(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(db.created) != 1 {
			t.Fatalf("expected one conversation, got %d", len(db.created))
		}
		conv := db.created[0]
		if len(conv.RelayCode) != 32 {
			t.Fatalf("expected 32-char relay code, got %q", conv.RelayCode)
		}
		if out.RelayCode != conv.RelayCode {
			t.Fatalf("output code %q does not match stored code %q", out.RelayCode, conv.RelayCode)
		}
		if conv.SenderEmail != in.SenderEmail || conv.RecipientEmail != "seller@example.org" {
			t.Fatalf("conversation parties wrong: %+v", conv)
		}

		if len(mailer.sent) != 1 {
			t.Fatalf("expected one mail, got %d", len(mailer.sent))
		}
		msg := mailer.sent[0]
		if msg.To[0] != "seller@example.org" {
			t.Fatalf("mail went to %q", msg.To[0])
		}
		if msg.ReplyTo != conv.RelayCode+"@relay.example.com" {
			t.Fatalf("reply-to %q does not carry the relay code", msg.ReplyTo)
		}
		if !strings.Contains(msg.TextBody, in.Message) {
			t.Fatalf("body does not contain the message")
		}
		if strings.Contains(msg.TextBody, in.SenderEmail) {
			t.Fatalf("body leaks the sender address")
		}

		if len(db.deliveries) != 1 || db.deliveries[0].Status != entity.DeliveryStatusQueued {
			t.Fatalf("expected one queued delivery, got %+v", db.deliveries)
		}
		if len(db.updates) != 1 || db.updates[0].Status != entity.DeliveryStatusSent {
			t.Fatalf("expected delivery marked sent, got %+v", db.updates)
		}
	})

	t.Run("ReusesExistingConversation", func(t *testing.T) {
		existing := &entity.Conversation{
			ID:             7,
			AdID:           42,
			RelayCode:      "00112233445566778899aabbccddeeff",
			SenderEmail:    in.SenderEmail,
			RecipientEmail: "seller@example.org",
			IsActive:       true,
		}
		db := &fakeRepoDB{adContact: activeAd(), existing: existing}
		mailer := &fakeMail{}
		uc := newTestUsecase(t, db, mailer, &fakeLimiter{allowed: true}, &fakeIdem{})

		out, err := uc.SendMessage(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if out.RelayCode != existing.RelayCode {
			t.Fatalf("expected existing code %q, got %q", existing.RelayCode, out.RelayCode)
		}
		if len(db.created) != 0 {
			t.Fatalf("expected no new conversation, got %d", len(db.created))
		}
		if len(db.touched) != 1 || db.touched[0] != existing.ID {
			t.Fatalf("expected conversation touched, got %v", db.touched)
		}
	})

	t.Run("CreateConflictReReadsWinner", func(t *testing.T) {
		winner := &entity.Conversation{
			ID:             9,
			AdID:           42,
			RelayCode:      "ffeeddccbbaa99887766554433221100",
			SenderEmail:    in.SenderEmail,
			RecipientEmail: "seller@example.org",
			IsActive:       true,
		}
		db := &fakeRepoDB{adContact: activeAd(), createErr: goerror.ErrConflict, existingLater: winner}
		mailer := &fakeMail{}
		uc := newTestUsecase(t, db, mailer, &fakeLimiter{allowed: true}, &fakeIdem{})

		out, err := uc.SendMessage(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.RelayCode != winner.RelayCode {
			t.Fatalf("expected winner code %q, got %q", winner.RelayCode, out.RelayCode)
		}
	})

	t.Run("RateLimited", func(t *testing.T) {
		db := &fakeRepoDB{adContact: activeAd()}
		mailer := &fakeMail{}
		uc := newTestUsecase(t, db, mailer, &fakeLimiter{allowed: false}, &fakeIdem{})

		_, err := uc.SendMessage(context.Background(), in)
		if code := errCode(t, err); code != goerror.CodeTooManyRequest {
			t.Fatalf("expected too many request, got %v", code)
		}
		if len(mailer.sent) != 0 || len(db.created) != 0 {
			t.Fatalf("rate limited request must have no side effects")
		}
	})

	t.Run("InactiveAd", func(t *testing.T) {
		ad := activeAd()
		ad.IsActive = false
		uc := newTestUsecase(t, &fakeRepoDB{adContact: ad}, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

		_, err := uc.SendMessage(context.Background(), in)
		if code := errCode(t, err); code != goerror.CodeNotFound {
			t.Fatalf("expected not found, got %v", code)
		}
	})

	t.Run("NoContactEmail", func(t *testing.T) {
		ad := activeAd()
		ad.ContactEmail = ""
		uc := newTestUsecase(t, &fakeRepoDB{adContact: ad}, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

		_, err := uc.SendMessage(context.Background(), in)
		if code := errCode(t, err); code != goerror.CodeInvalidInput {
			t.Fatalf("expected invalid input, got %v", code)
		}
	})

	t.Run("SendFailureMarksDelivery", func(t *testing.T) {
		db := &fakeRepoDB{adContact: activeAd()}
		mailer := &fakeMail{err: errors.New("provider down")}
		uc := newTestUsecase(t, db, mailer, &fakeLimiter{allowed: true}, &fakeIdem{})

		if _, err := uc.SendMessage(context.Background(), in); err == nil {
			t.Fatalf("expected error when provider fails")
		}
		if len(db.updates) != 1 || db.updates[0].Status != entity.DeliveryStatusFailed {
			t.Fatalf("expected delivery marked failed, got %+v", db.updates)
		}
	})
}

func TestProcessIncomingReply(t *testing.T) {
	const code = "00112233445566778899aabbccddeeff"

	conv := func() *entity.Conversation {
		return &entity.Conversation{
			ID:             7,
			AdID:           42,
			RelayCode:      code,
			SenderEmail:    "buyer@example.net",
			RecipientEmail: "seller@example.org",
			IsActive:       true,
		}
	}

	t.Run("PosterReplyGoesToInquirer", func(t *testing.T) {
		db := &fakeRepoDB{byCode: conv()}
		mailer := &fakeMail{}
		idem := &fakeIdem{}
		uc := newTestUsecase(t, db, mailer, &fakeLimiter{allowed: true}, idem)

		ok := uc.ProcessIncomingReply(context.Background(), ProcessIncomingReplyInput{
			To:      code + "@relay.example.com",
			From:    "Seller <seller@example.org>",
			Subject: "RE: Re: Still available?",
			Text:    "Yes, come by this weekend.",
		})
		if !ok {
			t.Fatalf("expected reply to be forwarded")
		}

		if len(mailer.sent) != 1 {
			t.Fatalf("expected one mail, got %d", len(mailer.sent))
		}
		msg := mailer.sent[0]
		if msg.To[0] != "buyer@example.net" {
			t.Fatalf("reply forwarded to %q", msg.To[0])
		}
		if msg.Subject != "Re: Still available?" {
			t.Fatalf("subject prefixes not collapsed: %q", msg.Subject)
		}
		if msg.ReplyTo != code+"@relay.example.com" {
			t.Fatalf("reply-to %q must stay on the relay", msg.ReplyTo)
		}
		if strings.Contains(msg.TextBody, "seller@example.org") {
			t.Fatalf("body leaks the poster address")
		}

		if len(db.touched) != 1 {
			t.Fatalf("expected conversation touched after forward")
		}
		if len(idem.completed) != 1 {
			t.Fatalf("expected dedupe key marked completed")
		}

		if len(db.deliveries) != 1 || db.deliveries[0].Direction != entity.DirectionToSender {
			t.Fatalf("expected to_sender delivery, got %+v", db.deliveries)
		}
	})

	t.Run("InquirerReplyGoesToPoster", func(t *testing.T) {
		db := &fakeRepoDB{byCode: conv()}
		mailer := &fakeMail{}
		uc := newTestUsecase(t, db, mailer, &fakeLimiter{allowed: true}, &fakeIdem{})

		ok := uc.ProcessIncomingReply(context.Background(), ProcessIncomingReplyInput{
			To:      code + "@relay.example.com",
			From:    "buyer@example.net",
			Subject: "Still available?",
			Text:    "Great, see you then.",
		})
		if !ok {
			t.Fatalf("expected reply to be forwarded")
		}
		if mailer.sent[0].To[0] != "seller@example.org" {
			t.Fatalf("reply forwarded to %q", mailer.sent[0].To[0])
		}
		if db.deliveries[0].Direction != entity.DirectionToRecipient {
			t.Fatalf("expected to_recipient delivery, got %+v", db.deliveries[0])
		}
	})

	t.Run("UnauthorizedSenderDropped", func(t *testing.T) {
		db := &fakeRepoDB{byCode: conv()}
		mailer := &fakeMail{}
		idem := &fakeIdem{}
		uc := newTestUsecase(t, db, mailer, &fakeLimiter{allowed: true}, idem)

		ok := uc.ProcessIncomingReply(context.Background(), ProcessIncomingReplyInput{
			To:      code + "@relay.example.com",
			From:    "stranger@example.com",
			Subject: "hello",
			Text:    "let me in",
		})
		if ok {
			t.Fatalf("expected unauthorized sender to be dropped")
		}
		if len(mailer.sent) != 0 || len(db.touched) != 0 || len(db.deliveries) != 0 {
			t.Fatalf("dropped reply must have no side effects")
		}
		if len(idem.failed) != 1 {
			t.Fatalf("expected dedupe key marked failed")
		}
	})

	t.Run("UnknownCodeDropped", func(t *testing.T) {
		db := &fakeRepoDB{}
		mailer := &fakeMail{}
		uc := newTestUsecase(t, db, mailer, &fakeLimiter{allowed: true}, &fakeIdem{})

		ok := uc.ProcessIncomingReply(context.Background(), ProcessIncomingReplyInput{
			To:      "deadbeefdeadbeefdeadbeefdeadbeef@relay.example.com",
			From:    "seller@example.org",
			Subject: "hello",
			Text:    "anyone there",
		})
		if ok {
			t.Fatalf("expected unknown code to be dropped")
		}
		if len(mailer.sent) != 0 {
			t.Fatalf("dropped reply must not send mail")
		}
	})

	t.Run("MalformedAddressDropped", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{}, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

		ok := uc.ProcessIncomingReply(context.Background(), ProcessIncomingReplyInput{
			To:      "not-an-address",
			From:    "seller@example.org",
			Subject: "hello",
			Text:    "hi",
		})
		if ok {
			t.Fatalf("expected malformed address to be dropped")
		}
	})

	t.Run("DuplicateShortCircuits", func(t *testing.T) {
		mailer := &fakeMail{}
		uc := newTestUsecase(t, &fakeRepoDB{byCode: conv()}, mailer, &fakeLimiter{allowed: true}, &fakeIdem{state: idempotency.StateCompleted})

		ok := uc.ProcessIncomingReply(context.Background(), ProcessIncomingReplyInput{
			To:      code + "@relay.example.com",
			From:    "seller@example.org",
			Subject: "hello",
			Text:    "again",
		})
		if !ok {
			t.Fatalf("duplicate must report success")
		}
		if len(mailer.sent) != 0 {
			t.Fatalf("duplicate must not send mail")
		}
	})

	t.Run("HTMLOnlyBody", func(t *testing.T) {
		mailer := &fakeMail{}
		uc := newTestUsecase(t, &fakeRepoDB{byCode: conv()}, mailer, &fakeLimiter{allowed: true}, &fakeIdem{})

		ok := uc.ProcessIncomingReply(context.Background(), ProcessIncomingReplyInput{
			To:      code + "@relay.example.com",
			From:    "seller@example.org",
			Subject: "hello",
			HTML:    "<p>rich reply</p>",
		})
		if !ok {
			t.Fatalf("expected html-only reply to be forwarded")
		}
		msg := mailer.sent[0]
		if !strings.Contains(msg.TextBody, "HTML content only") {
			t.Fatalf("expected placeholder text body, got %q", msg.TextBody)
		}
		if !strings.Contains(msg.HTMLBody, "rich reply") {
			t.Fatalf("expected original html body, got %q", msg.HTMLBody)
		}
	})
}

func TestCreateAdRelay(t *testing.T) {
	db := &fakeRepoDB{}
	uc := newTestUsecase(t, db, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

	relayEmail, err := uc.CreateAdRelay(context.Background(), 42, "seller@example.org")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	local, domain, found := strings.Cut(relayEmail, "@")
	if !found || domain != "relay.example.com" {
		t.Fatalf("unexpected relay address %q", relayEmail)
	}
	if len(local) != 16 {
		t.Fatalf("expected 16-char local part, got %q", local)
	}
	if db.savedAdID != 42 || db.savedContact != "seller@example.org" || db.savedRelay != relayEmail {
		t.Fatalf("relay not persisted: %+v", db)
	}
}

func TestRandomHex(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for range 10000 {
		code, err := randomHex(relayCodeBytes)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(code) != 32 {
			t.Fatalf("expected 32-char code, got %q", code)
		}
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code generated: %q", code)
		}
		seen[code] = struct{}{}
	}
}

func TestReplySubject(t *testing.T) {
	cases := map[string]string{
		"Still available?":        "Re: Still available?",
		"Re: Still available?":    "Re: Still available?",
		"RE: re: Still available": "Re: Still available",
		"re:re:re:  hello":        "Re: hello",
	}
	for in, want := range cases {
		if got := replySubject(in); got != want {
			t.Fatalf("replySubject(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConversationDeactivate(t *testing.T) {
	const code = "00112233445566778899aabbccddeeff"

	t.Run("Found", func(t *testing.T) {
		db := &fakeRepoDB{deactivateFound: true}
		uc := newTestUsecase(t, db, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

		if err := uc.ConversationDeactivate(context.Background(), ConversationDeactivateInput{RelayCode: code}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(db.deactivatedCodes) != 1 || db.deactivatedCodes[0] != code {
			t.Fatalf("expected code deactivated, got %v", db.deactivatedCodes)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		uc := newTestUsecase(t, &fakeRepoDB{}, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

		err := uc.ConversationDeactivate(context.Background(), ConversationDeactivateInput{RelayCode: code})
		if code := errCode(t, err); code != goerror.CodeNotFound {
			t.Fatalf("expected not found, got %v", code)
		}
	})

	t.Run("MalformedCode", func(t *testing.T) {
		db := &fakeRepoDB{}
		uc := newTestUsecase(t, db, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

		if err := uc.ConversationDeactivate(context.Background(), ConversationDeactivateInput{RelayCode: "xyz"}); err == nil {
			t.Fatalf("expected validation error")
		}
		if len(db.deactivatedCodes) != 0 {
			t.Fatalf("malformed code must not reach the repo")
		}
	})
}

func TestConversationDeliveries(t *testing.T) {
	const code = "00112233445566778899aabbccddeeff"

	t.Run("ListsNewestFirst", func(t *testing.T) {
		db := &fakeRepoDB{listed: []entity.Delivery{
			{ID: 2, Direction: entity.DirectionToSender, Recipient: "buyer@example.net", Status: entity.DeliveryStatusSent},
			{ID: 1, Direction: entity.DirectionOutbound, Recipient: "seller@example.org", Status: entity.DeliveryStatusFailed},
		}}
		uc := newTestUsecase(t, db, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

		list, err := uc.ConversationDeliveries(context.Background(), ConversationDeliveriesInput{RelayCode: code})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(list) != 2 || list[0].ID != 2 {
			t.Fatalf("unexpected list: %+v", list)
		}
		if db.listedCode != code {
			t.Fatalf("expected lookup by %q, got %q", code, db.listedCode)
		}
		if db.listedLimit != defaultDeliveryListLimit {
			t.Fatalf("expected default limit %d, got %d", defaultDeliveryListLimit, db.listedLimit)
		}
	})

	t.Run("ExplicitLimit", func(t *testing.T) {
		db := &fakeRepoDB{}
		uc := newTestUsecase(t, db, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

		if _, err := uc.ConversationDeliveries(context.Background(), ConversationDeliveriesInput{RelayCode: code, Limit: 10}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if db.listedLimit != 10 {
			t.Fatalf("expected limit 10, got %d", db.listedLimit)
		}
	})

	t.Run("MalformedCode", func(t *testing.T) {
		db := &fakeRepoDB{}
		uc := newTestUsecase(t, db, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

		if _, err := uc.ConversationDeliveries(context.Background(), ConversationDeliveriesInput{RelayCode: "xyz"}); err == nil {
			t.Fatalf("expected validation error")
		}
		if db.listedCode != "" {
			t.Fatalf("malformed code must not reach the repo")
		}
	})
}

func TestTransportCheck(t *testing.T) {
	uc := newTestUsecase(t, &fakeRepoDB{}, &fakeMail{healthy: true}, &fakeLimiter{allowed: true}, &fakeIdem{})

	out := uc.TransportCheck(context.Background())
	if out.Driver != "smtp" || !out.Healthy {
		t.Fatalf("unexpected transport check result: %+v", out)
	}
}

func TestConsumeAdDeactivated(t *testing.T) {
	t.Run("DeactivatesConversations", func(t *testing.T) {
		db := &fakeRepoDB{}
		uc := newTestUsecase(t, db, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

		if err := uc.ConsumeAdDeactivated(context.Background(), ConsumeAdDeactivatedInput{AdID: 42, Reason: "expired"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(db.deactivatedAds) != 1 || db.deactivatedAds[0] != 42 {
			t.Fatalf("expected ad 42 deactivated, got %v", db.deactivatedAds)
		}
	})

	t.Run("InvalidPayloadSkipped", func(t *testing.T) {
		db := &fakeRepoDB{}
		uc := newTestUsecase(t, db, &fakeMail{}, &fakeLimiter{allowed: true}, &fakeIdem{})

		if err := uc.ConsumeAdDeactivated(context.Background(), ConsumeAdDeactivatedInput{}); err != nil {
			t.Fatalf("invalid payload must be dropped, not requeued: %v", err)
		}
		if len(db.deactivatedAds) != 0 {
			t.Fatalf("invalid payload must not reach the repo")
		}
	})
}
