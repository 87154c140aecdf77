package mail

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DriverSMTP selects the net/smtp backend.
	DriverSMTP = "smtp"
	// DriverSendGrid selects the SendGrid API backend.
	DriverSendGrid = "sendgrid"
	// DriverMailgun selects the Mailgun API backend.
	DriverMailgun = "mailgun"
	// DriverPostmark selects the Postmark API backend.
	DriverPostmark = "postmark"
	// DriverResend selects the Resend API backend.
	DriverResend = "resend"
)

// ErrUnknownDriver indicates an unsupported mail driver.
var ErrUnknownDriver = errors.New("mail: unknown driver")

// FactoryOptions groups configuration for the supported mail drivers.
type FactoryOptions struct {
	// From is the default sender address applied when Message.From is empty.
	From string
	// FromName is the default sender display name.
	FromName string

	// SMTP configures the SMTP backend.
	SMTP SMTPConfig
	// SendGrid configures the SendGrid backend.
	SendGrid SendGridConfig
	// Mailgun configures the Mailgun backend.
	Mailgun MailgunConfig
	// Postmark configures the Postmark backend.
	Postmark PostmarkConfig
	// Resend configures the Resend backend.
	Resend ResendConfig
}

// NewFromDriver constructs a Mail implementation by driver name.
//
// The driver set is closed; a name outside it returns ErrUnknownDriver so a
// misconfigured deployment fails at startup instead of sending mail through
// unintended credentials.
func NewFromDriver(driver string, opts FactoryOptions) (Mail, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSMTP:
		opts.SMTP.From = defaultString(opts.SMTP.From, opts.From)
		opts.SMTP.FromName = defaultString(opts.SMTP.FromName, opts.FromName)
		return NewSMTP(opts.SMTP)
	case DriverSendGrid:
		opts.SendGrid.From = defaultString(opts.SendGrid.From, opts.From)
		opts.SendGrid.FromName = defaultString(opts.SendGrid.FromName, opts.FromName)
		return NewSendGrid(opts.SendGrid)
	case DriverMailgun:
		opts.Mailgun.From = defaultString(opts.Mailgun.From, opts.From)
		opts.Mailgun.FromName = defaultString(opts.Mailgun.FromName, opts.FromName)
		return NewMailgun(opts.Mailgun)
	case DriverPostmark:
		opts.Postmark.From = defaultString(opts.Postmark.From, opts.From)
		opts.Postmark.FromName = defaultString(opts.Postmark.FromName, opts.FromName)
		return NewPostmark(opts.Postmark)
	case DriverResend:
		opts.Resend.From = defaultString(opts.Resend.From, opts.From)
		opts.Resend.FromName = defaultString(opts.Resend.FromName, opts.FromName)
		return NewResend(opts.Resend)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

func defaultString(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// formatFrom renders "Name <address>" or just the address when no name is set.
func formatFrom(name, address string) string {
	if name == "" {
		return address
	}
	return fmt.Sprintf("%s <%s>", name, address)
}
