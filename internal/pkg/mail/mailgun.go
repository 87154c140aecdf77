package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mailgun/mailgun-go/v4"
)

// ErrMailgunConfigRequired is returned when the API key or domain are missing.
var ErrMailgunConfigRequired = errors.New("mailgun api key and domain are required")

// Mailgun is a Mail implementation backed by the Mailgun messages API.
type Mailgun struct {
	mg       *mailgun.MailgunImpl
	domain   string
	from     string
	fromName string
}

// MailgunConfig configures the Mailgun implementation.
type MailgunConfig struct {
	// APIKey is the Mailgun private API key.
	APIKey string
	// Domain is the Mailgun sending domain.
	Domain string
	// APIBase overrides the API base URL (EU region deployments).
	APIBase string
	// From is the default sender when Message.From is empty.
	From string
	// FromName is the default sender display name.
	FromName string
}

// NewMailgun constructs a Mailgun mail sender.
func NewMailgun(cfg MailgunConfig) (*Mailgun, error) {
	if cfg.APIKey == "" || cfg.Domain == "" {
		return nil, ErrMailgunConfigRequired
	}

	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.APIBase != "" {
		mg.SetAPIBase(cfg.APIBase)
	}

	return &Mailgun{mg: mg, domain: cfg.Domain, from: cfg.From, fromName: cfg.FromName}, nil
}

// Send delivers a message through the Mailgun messages API.
func (m *Mailgun) Send(ctx context.Context, msg Message) (SendResult, error) {
	if len(msg.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}

	fromAddr := msg.From
	if fromAddr == "" {
		fromAddr = m.from
	}
	fromName := msg.FromName
	if fromName == "" {
		fromName = m.fromName
	}

	message := m.mg.NewMessage(formatFrom(fromName, fromAddr), msg.Subject, msg.TextBody, msg.To...)
	if msg.HTMLBody != "" {
		message.SetHtml(msg.HTMLBody)
	}
	if msg.ReplyTo != "" {
		message.SetReplyTo(msg.ReplyTo)
	}

	_, id, err := m.mg.Send(ctx, message)
	if err != nil {
		return SendResult{}, fmt.Errorf("mailgun: %w", err)
	}

	return SendResult{MessageID: id, Provider: DriverMailgun}, nil
}

// Test validates credentials by looking up the sending domain.
func (m *Mailgun) Test(ctx context.Context) bool {
	_, err := m.mg.GetDomain(ctx, m.domain)
	return err == nil
}

// Close implements io.Closer for interface compatibility.
func (m *Mailgun) Close() error {
	return nil
}
