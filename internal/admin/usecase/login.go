package usecase

import (
	"context"
	"log/slog"

	"github.com/anonpersonals/personals/internal/pkg/goerror"
)

type LoginInput struct {
	Password string `validate:"required"`
}

type LoginOutput struct {
	AccessToken string
}

// Login checks the single admin password against the configured bcrypt hash
// and issues the token the protected endpoints require.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	hashed := s.cfg.GetString("modules.admin.password_hash")
	if hashed == "" {
		slog.ErrorContext(ctx, "admin password hash is not configured")
		return nil, goerror.NewBusiness("Admin login is disabled", goerror.CodeForbidden)
	}

	if !s.bcrypt.Verify(hashed, in.Password) {
		slog.WarnContext(ctx, "admin password did not match")
		return nil, goerror.NewBusiness("Invalid password", goerror.CodeUnauthorized)
	}

	token, err := s.jwt.Generate("admin", "admin")
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate admin jwt token", "error", err)
		return nil, goerror.NewServer(err)
	}

	return &LoginOutput{AccessToken: token}, nil
}
