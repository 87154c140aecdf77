package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ErrResendAPIKeyRequired is returned when the API key is missing.
var ErrResendAPIKeyRequired = errors.New("resend api key is required")

// Resend is a Mail implementation backed by the Resend email API.
type Resend struct {
	client   *resend.Client
	from     string
	fromName string
}

// ResendConfig configures the Resend implementation.
type ResendConfig struct {
	// APIKey is the Resend API key.
	APIKey string
	// From is the default sender when Message.From is empty.
	From string
	// FromName is the default sender display name.
	FromName string
}

// NewResend constructs a Resend mail sender.
func NewResend(cfg ResendConfig) (*Resend, error) {
	if cfg.APIKey == "" {
		return nil, ErrResendAPIKeyRequired
	}

	return &Resend{client: resend.NewClient(cfg.APIKey), from: cfg.From, fromName: cfg.FromName}, nil
}

// Send delivers a message through the Resend email API.
func (r *Resend) Send(ctx context.Context, msg Message) (SendResult, error) {
	if len(msg.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}

	fromAddr := msg.From
	if fromAddr == "" {
		fromAddr = r.from
	}
	fromName := msg.FromName
	if fromName == "" {
		fromName = r.fromName
	}

	req := &resend.SendEmailRequest{
		From:    formatFrom(fromName, fromAddr),
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.TextBody,
		Html:    msg.HTMLBody,
	}
	if msg.ReplyTo != "" {
		req.ReplyTo = msg.ReplyTo
	}

	sent, err := r.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return SendResult{}, fmt.Errorf("resend: %w", err)
	}

	return SendResult{MessageID: sent.Id, Provider: DriverResend}, nil
}

// Test validates the API key by listing configured domains.
func (r *Resend) Test(ctx context.Context) bool {
	_, err := r.client.Domains.ListWithContext(ctx)
	return err == nil
}

// Close implements io.Closer for interface compatibility.
func (r *Resend) Close() error {
	return nil
}
