package usecase

import (
	"context"

	"github.com/anonpersonals/personals/internal/pkg/config"
	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/jwt"
	"github.com/anonpersonals/personals/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type passwordVerifier interface {
	Verify(hashed, plaintext string) bool
}

type Usecase struct {
	cfg       config.Config
	validator validator.Validator
	bcrypt    passwordVerifier
	jwt       jwt.JWT
	ins       instrument.Instrumentation
}

type Dependency struct {
	Config     config.Config
	Validator  validator.Validator
	Bcrypt     passwordVerifier
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

func NewAdmin(dep Dependency) *Usecase {
	return &Usecase{
		cfg:       dep.Config,
		validator: dep.Validator,
		bcrypt:    dep.Bcrypt,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("admin.usecase").Start(ctx, name)
}
