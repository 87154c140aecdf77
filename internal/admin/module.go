// Package admin provides the single-principal login that guards the
// operational endpoints.
package admin

import (
	"github.com/anonpersonals/personals/internal/admin/inbound"
	"github.com/anonpersonals/personals/internal/admin/usecase"
	"github.com/anonpersonals/personals/internal/pkg/config"
	"github.com/anonpersonals/personals/internal/pkg/hash"
	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/jwt"
	"github.com/anonpersonals/personals/internal/pkg/router"
	"github.com/anonpersonals/personals/internal/pkg/validator"
)

type Dependency struct {
	Config     config.Config
	Instrument instrument.Instrumentation
	Validator  validator.Validator
	Router     *router.Router
	JWT        jwt.JWT
	Bcrypt     *hash.Bcrypt
}

func New(dep Dependency) error {
	uc := usecase.NewAdmin(usecase.Dependency{
		Config:     dep.Config,
		Validator:  dep.Validator,
		Bcrypt:     dep.Bcrypt,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
