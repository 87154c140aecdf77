package app

import (
	"context"
	"net/http"

	"github.com/anonpersonals/personals/internal/pkg/clock"
	"github.com/anonpersonals/personals/internal/pkg/config"
	"github.com/anonpersonals/personals/internal/pkg/goroutine"
	"github.com/anonpersonals/personals/internal/pkg/hash"
	"github.com/anonpersonals/personals/internal/pkg/idempotency"
	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/jwt"
	"github.com/anonpersonals/personals/internal/pkg/mail"
	"github.com/anonpersonals/personals/internal/pkg/messaging"
	"github.com/anonpersonals/personals/internal/pkg/ratelimit"
	"github.com/anonpersonals/personals/internal/pkg/router"
	"github.com/anonpersonals/personals/internal/pkg/storage"
	"github.com/anonpersonals/personals/internal/pkg/uid"
	"github.com/anonpersonals/personals/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	bcrypt    *hash.Bcrypt
	uid       uid.NumberID
	uuid      uid.StringID
	jwt       jwt.JWT

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	idemp     idempotency.Idempotency
	limiter   ratelimit.Limiter
	mail      mail.Mail
	messaging messaging.Messaging
	storage   storage.Storage

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initJWT()
	app.initDatabase()
	app.initCache()
	app.initMail()
	app.initStorage()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
