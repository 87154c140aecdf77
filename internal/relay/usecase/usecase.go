package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/anonpersonals/personals/internal/pkg/clock"
	"github.com/anonpersonals/personals/internal/pkg/config"
	"github.com/anonpersonals/personals/internal/pkg/idempotency"
	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/mail"
	"github.com/anonpersonals/personals/internal/pkg/ratelimit"
	"github.com/anonpersonals/personals/internal/pkg/uid"
	"github.com/anonpersonals/personals/internal/pkg/validator"
	"github.com/anonpersonals/personals/internal/relay/entity"
	"go.opentelemetry.io/otel/trace"
)

const (
	// relayEmailBytes yields a 16-hex-char local part for ad relay addresses.
	relayEmailBytes = 8
	// relayCodeBytes yields a 32-hex-char conversation code.
	relayCodeBytes = 16
)

type repoDB interface {
	GetAdContact(ctx context.Context, adID int64) (*entity.AdContact, error)
	SaveAdRelay(ctx context.Context, adID int64, contactEmail, relayEmail string) error

	GetActiveConversationByAdSender(ctx context.Context, adID int64, senderEmail string) (*entity.Conversation, error)
	GetActiveConversationByCode(ctx context.Context, relayCode string) (*entity.Conversation, error)
	CreateConversation(ctx context.Context, conv entity.Conversation) error
	TouchConversation(ctx context.Context, id int64, lastUsed time.Time) error
	DeactivateConversationByCode(ctx context.Context, relayCode string) (bool, error)
	DeactivateConversationsByAd(ctx context.Context, adID int64) (int64, error)

	CreateDelivery(ctx context.Context, data entity.CreateDelivery) error
	UpdateDeliveryStatus(ctx context.Context, data entity.UpdateDelivery) error
	ListDeliveriesByConversationCode(ctx context.Context, relayCode string, limit int32) ([]entity.Delivery, error)
}

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) (mail.SendResult, error)
	Test(ctx context.Context) bool
}

type Usecase struct {
	repoDB    repoDB
	repoMail  repoMail
	cfg       config.Config
	uid       uid.NumberID
	clock     clock.Clocker
	validator validator.Validator
	limiter   ratelimit.Limiter
	idem      idempotency.Idempotency
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	RepoMail   repoMail
	Config     config.Config
	UID        uid.NumberID
	Clock      clock.Clocker
	Validator  validator.Validator
	Limiter    ratelimit.Limiter
	Idem       idempotency.Idempotency
	Instrument instrument.Instrumentation
}

func NewRelay(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		repoMail:  dep.RepoMail,
		cfg:       dep.Config,
		uid:       dep.UID,
		clock:     dep.Clock,
		validator: dep.Validator,
		limiter:   dep.Limiter,
		idem:      dep.Idem,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("relay.usecase").Start(ctx, name)
}

func (s *Usecase) relayDomain() string {
	return s.cfg.GetString("modules.relay.domain")
}

// relayAddress is the Reply-To address for a conversation code.
func (s *Usecase) relayAddress(relayCode string) string {
	return relayCode + "@" + s.relayDomain()
}

func (s *Usecase) adLink(adID int64) string {
	return fmt.Sprintf("%s/ads/%d", s.cfg.GetString("app.web"), adID)
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func mailMessage(in forwardInput, replyTo string) mail.Message {
	return mail.Message{
		To:       []string{in.To},
		ReplyTo:  replyTo,
		Subject:  in.Subject,
		TextBody: in.TextBody,
		HTMLBody: in.HTMLBody,
	}
}

var rePrefix = regexp.MustCompile(`(?i)^(re:\s*)+`)

// replySubject collapses any pile of "Re:" prefixes into exactly one.
func replySubject(subject string) string {
	return "Re: " + strings.TrimSpace(rePrefix.ReplaceAllString(subject, ""))
}
