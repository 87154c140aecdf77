package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"
)

// ErrPostmarkTokenRequired is returned when the server token is missing.
var ErrPostmarkTokenRequired = errors.New("postmark server token is required")

// Postmark is a Mail implementation backed by the Postmark email API.
type Postmark struct {
	client   *postmark.Client
	stream   string
	from     string
	fromName string
}

// PostmarkConfig configures the Postmark implementation.
type PostmarkConfig struct {
	// ServerToken authenticates against the Postmark server API.
	ServerToken string
	// AccountToken is optional and only needed for account-level calls.
	AccountToken string
	// MessageStream selects the Postmark stream, defaults to "outbound".
	MessageStream string
	// From is the default sender when Message.From is empty.
	From string
	// FromName is the default sender display name.
	FromName string
}

// NewPostmark constructs a Postmark mail sender.
func NewPostmark(cfg PostmarkConfig) (*Postmark, error) {
	if cfg.ServerToken == "" {
		return nil, ErrPostmarkTokenRequired
	}

	return &Postmark{
		client:   postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		stream:   defaultString(cfg.MessageStream, "outbound"),
		from:     cfg.From,
		fromName: cfg.FromName,
	}, nil
}

// Send delivers a message through the Postmark email API.
func (p *Postmark) Send(ctx context.Context, msg Message) (SendResult, error) {
	if len(msg.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}

	fromAddr := msg.From
	if fromAddr == "" {
		fromAddr = p.from
	}
	fromName := msg.FromName
	if fromName == "" {
		fromName = p.fromName
	}

	email := postmark.Email{
		From:          formatFrom(fromName, fromAddr),
		To:            strings.Join(msg.To, ","),
		Subject:       msg.Subject,
		TextBody:      msg.TextBody,
		HTMLBody:      msg.HTMLBody,
		ReplyTo:       msg.ReplyTo,
		MessageStream: p.stream,
	}

	res, err := p.client.SendEmail(ctx, email)
	if err != nil {
		return SendResult{}, fmt.Errorf("postmark: %w", err)
	}
	if res.ErrorCode != 0 {
		return SendResult{}, fmt.Errorf("postmark: code %d: %s", res.ErrorCode, res.Message)
	}

	return SendResult{MessageID: res.MessageID, Provider: DriverPostmark}, nil
}

// Test validates the server token by fetching server details.
func (p *Postmark) Test(ctx context.Context) bool {
	_, err := p.client.GetCurrentServer(ctx)
	return err == nil
}

// Close implements io.Closer for interface compatibility.
func (p *Postmark) Close() error {
	return nil
}
