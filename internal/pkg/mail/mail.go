package mail

import (
	"context"
	"errors"
	"io"
)

// ErrNoRecipients is returned by every driver when Message.To is empty.
var ErrNoRecipients = errors.New("no recipients provided")

// Message represents an email payload.
//
// Fields are intentionally provider-agnostic so they can be sent using SMTP or
// any of the HTTP API providers.
type Message struct {
	// From is an optional explicit sender address; fallback depends on implementation.
	From string
	// FromName is the optional display name for the sender.
	FromName string
	// To lists required recipients.
	To []string
	// ReplyTo sets the Reply-To header when non-empty.
	ReplyTo string
	// Subject is the email subject line.
	Subject string
	// TextBody is the plain-text body; preferred when HTMLBody is empty.
	TextBody string
	// HTMLBody is the optional HTML body.
	HTMLBody string
}

// SendResult reports a successful delivery handoff.
type SendResult struct {
	// MessageID is the provider-assigned message identifier.
	MessageID string
	// Provider is the driver name that handled the send.
	Provider string
}

// Mail abstracts an outbound email provider.
//
// Provider failures are returned as errors; implementations must not panic
// past this boundary.
type Mail interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) (SendResult, error)
	// Test reports whether the provider's credentials are minimally functional.
	Test(ctx context.Context) bool
}
