package mail

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// ErrSendGridAPIKeyRequired is returned when no API key is configured.
var ErrSendGridAPIKeyRequired = errors.New("sendgrid api key is required")

// SendGrid is a Mail implementation backed by the SendGrid v3 API.
type SendGrid struct {
	apiKey   string
	from     string
	fromName string
}

// SendGridConfig configures the SendGrid implementation.
type SendGridConfig struct {
	// APIKey is the SendGrid API key.
	APIKey string
	// From is the default sender when Message.From is empty.
	From string
	// FromName is the default sender display name.
	FromName string
}

// NewSendGrid constructs a SendGrid mail sender.
func NewSendGrid(cfg SendGridConfig) (*SendGrid, error) {
	if cfg.APIKey == "" {
		return nil, ErrSendGridAPIKeyRequired
	}

	return &SendGrid{apiKey: cfg.APIKey, from: cfg.From, fromName: cfg.FromName}, nil
}

// Send delivers a message through the SendGrid mail send endpoint.
func (s *SendGrid) Send(ctx context.Context, msg Message) (SendResult, error) {
	if len(msg.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}

	fromAddr := msg.From
	if fromAddr == "" {
		fromAddr = s.from
	}
	fromName := msg.FromName
	if fromName == "" {
		fromName = s.fromName
	}

	from := sgmail.NewEmail(fromName, fromAddr)
	to := sgmail.NewEmail("", msg.To[0])

	m := sgmail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, msg.HTMLBody)
	for _, addr := range msg.To[1:] {
		m.Personalizations[0].AddTos(sgmail.NewEmail("", addr))
	}
	if msg.ReplyTo != "" {
		m.SetReplyTo(sgmail.NewEmail("", msg.ReplyTo))
	}

	client := sendgrid.NewSendClient(s.apiKey)
	resp, err := client.SendWithContext(ctx, m)
	if err != nil {
		return SendResult{}, fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return SendResult{}, fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode, resp.Body)
	}

	messageID := ""
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}

	return SendResult{MessageID: messageID, Provider: DriverSendGrid}, nil
}

// Test validates the API key against the scopes endpoint.
func (s *SendGrid) Test(ctx context.Context) bool {
	req := sendgrid.GetRequest(s.apiKey, "/v3/scopes", "https://api.sendgrid.com")
	req.Method = http.MethodGet

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return false
	}

	return resp.StatusCode == http.StatusOK
}

// Close implements io.Closer for interface compatibility.
func (s *SendGrid) Close() error {
	return nil
}
