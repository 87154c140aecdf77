package mail

import (
	"errors"
	"testing"
)

func TestNewFromDriver(t *testing.T) {
	t.Run("UnknownDriverFailsHard", func(t *testing.T) {
		_, err := NewFromDriver("carrier-pigeon", FactoryOptions{})
		if !errors.Is(err, ErrUnknownDriver) {
			t.Fatalf("expected ErrUnknownDriver, got %v", err)
		}
	})

	t.Run("EmptyDriverFailsHard", func(t *testing.T) {
		if _, err := NewFromDriver("", FactoryOptions{}); !errors.Is(err, ErrUnknownDriver) {
			t.Fatalf("expected ErrUnknownDriver, got %v", err)
		}
	})

	t.Run("DriverNameIsCaseInsensitive", func(t *testing.T) {
		sender, err := NewFromDriver("  SendGrid ", FactoryOptions{
			From:     "relay@example.com",
			SendGrid: SendGridConfig{APIKey: "SG.test"},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sender == nil {
			t.Fatalf("expected a sender")
		}
	})

	t.Run("MissingCredentialsFailHard", func(t *testing.T) {
		if _, err := NewFromDriver(DriverMailgun, FactoryOptions{}); err == nil {
			t.Fatalf("expected error for mailgun without credentials")
		}
		if _, err := NewFromDriver(DriverPostmark, FactoryOptions{}); err == nil {
			t.Fatalf("expected error for postmark without token")
		}
		if _, err := NewFromDriver(DriverResend, FactoryOptions{}); err == nil {
			t.Fatalf("expected error for resend without api key")
		}
	})

	t.Run("DefaultFromApplied", func(t *testing.T) {
		sender, err := NewFromDriver(DriverSMTP, FactoryOptions{
			From:     "relay@example.com",
			FromName: "Personals",
			SMTP:     SMTPConfig{Host: "localhost", Port: 1025},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		smtp, ok := sender.(*SMTP)
		if !ok {
			t.Fatalf("expected *SMTP, got %T", sender)
		}
		if smtp.defaultFrom != "relay@example.com" || smtp.fromName != "Personals" {
			t.Fatalf("default sender not applied: %+v", smtp)
		}
	})
}

func TestFormatFrom(t *testing.T) {
	if got := formatFrom("", "relay@example.com"); got != "relay@example.com" {
		t.Fatalf("formatFrom without name = %q", got)
	}
	if got := formatFrom("Personals", "relay@example.com"); got != "Personals <relay@example.com>" {
		t.Fatalf("formatFrom with name = %q", got)
	}
}
