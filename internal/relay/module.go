// Package relay keeps posters and inquirers in contact without either side
// learning the other's email address.
//
// Every ad gets a relay address, every (ad, inquirer) pair gets a
// conversation with an opaque relay code, and replies to a code are routed to
// the opposite party with the relay address as Reply-To.
package relay

import (
	"context"

	"github.com/anonpersonals/personals/internal/pkg/clock"
	"github.com/anonpersonals/personals/internal/pkg/config"
	"github.com/anonpersonals/personals/internal/pkg/goroutine"
	"github.com/anonpersonals/personals/internal/pkg/idempotency"
	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/mail"
	"github.com/anonpersonals/personals/internal/pkg/messaging"
	"github.com/anonpersonals/personals/internal/pkg/ratelimit"
	"github.com/anonpersonals/personals/internal/pkg/router"
	"github.com/anonpersonals/personals/internal/pkg/uid"
	"github.com/anonpersonals/personals/internal/pkg/validator"
	"github.com/anonpersonals/personals/internal/relay/inbound"
	"github.com/anonpersonals/personals/internal/relay/outbound/db"
	"github.com/anonpersonals/personals/internal/relay/outbound/email"
	"github.com/anonpersonals/personals/internal/relay/usecase"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool
	Messaging  messaging.Messaging
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	UUID       uid.StringID
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Router     *router.Router
	Mail       mail.Mail
	Limiter    ratelimit.Limiter
	Idem       idempotency.Idempotency
}

// New wires the relay module and returns its usecase so sibling modules can
// mint relay addresses synchronously.
func New(dep Dependency) (*usecase.Usecase, error) {
	dbRelay := db.NewDB(dep.DBConn, dep.Instrument)
	repoMail := email.New(dep.Mail, dep.Instrument)

	uc := usecase.NewRelay(usecase.Dependency{
		RepoDB:     dbRelay,
		RepoMail:   repoMail,
		Config:     dep.Config,
		UID:        dep.UID,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		Limiter:    dep.Limiter,
		Idem:       dep.Idem,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return uc, nil
}
