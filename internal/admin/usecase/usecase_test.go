package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anonpersonals/personals/internal/pkg/config"
	"github.com/anonpersonals/personals/internal/pkg/goerror"
	"github.com/anonpersonals/personals/internal/pkg/hash"
	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/jwt"
	"github.com/anonpersonals/personals/internal/pkg/validator"
)

type stubConfig struct {
	config.Config
	values map[string]string
}

func (c stubConfig) GetString(key string) string { return c.values[key] }

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

type stubUUID struct{}

func (stubUUID) Generate() string { return "00000000-0000-0000-0000-000000000001" }

func newTestUsecase(t *testing.T, passwordHash string) *Usecase {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("failed to build validator: %v", err)
	}

	signer, err := jwt.NewHS512(jwt.Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"),
		Issuer:     "personals",
		Audiences:  []string{"personals"},
		TTLMinutes: 30 * time.Minute,
		Clock:      stubClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
		UUID:       stubUUID{},
	})
	if err != nil {
		t.Fatalf("failed to build jwt: %v", err)
	}

	return NewAdmin(Dependency{
		Config:     stubConfig{values: map[string]string{"modules.admin.password_hash": passwordHash}},
		Validator:  v,
		Bcrypt:     hash.NewBcrypt(4, ""),
		JWT:        signer,
		Instrument: instrument.NewNoop(),
	})
}

func TestLogin(t *testing.T) {
	hasher := hash.NewBcrypt(4, "")
	hashed, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	t.Run("Success", func(t *testing.T) {
		uc := newTestUsecase(t, string(hashed))

		out, err := uc.Login(context.Background(), LoginInput{Password: "correct horse battery staple"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.AccessToken == "" {
			t.Fatalf("expected access token in response")
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		uc := newTestUsecase(t, string(hashed))

		_, err := uc.Login(context.Background(), LoginInput{Password: "guess"})
		var ge *goerror.Error
		if !errors.As(err, &ge) || ge.Code() != goerror.CodeUnauthorized {
			t.Fatalf("expected unauthorized, got %v", err)
		}
	})

	t.Run("LoginDisabled", func(t *testing.T) {
		uc := newTestUsecase(t, "")

		_, err := uc.Login(context.Background(), LoginInput{Password: "anything"})
		var ge *goerror.Error
		if !errors.As(err, &ge) || ge.Code() != goerror.CodeForbidden {
			t.Fatalf("expected forbidden, got %v", err)
		}
	})

	t.Run("EmptyPassword", func(t *testing.T) {
		uc := newTestUsecase(t, string(hashed))

		if _, err := uc.Login(context.Background(), LoginInput{}); err == nil {
			t.Fatalf("expected validation error")
		}
	})
}
