// Package mail defines the contracts for sending email messages.
//
// The main purpose is to keep the rest of the application independent from a
// specific email provider. Handlers and use cases work with the Mail interface
// and Message payload; the concrete delivery mechanism (SMTP, SendGrid,
// Mailgun, Postmark, Resend) is selected once at startup through the factory.
// An unrecognized driver name is a startup error, never a silent fallback.
package mail
