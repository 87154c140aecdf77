// Package board is the classified-ads surface: posting, browsing, voting,
// and the expiry sweeper. Posters are identified only by a salted IP hash.
package board

import (
	"context"
	"log/slog"
	"time"

	"github.com/anonpersonals/personals/internal/board/inbound"
	"github.com/anonpersonals/personals/internal/board/outbound/db"
	"github.com/anonpersonals/personals/internal/board/outbound/mq"
	"github.com/anonpersonals/personals/internal/board/outbound/objstore"
	"github.com/anonpersonals/personals/internal/board/usecase"
	"github.com/anonpersonals/personals/internal/pkg/clock"
	"github.com/anonpersonals/personals/internal/pkg/config"
	"github.com/anonpersonals/personals/internal/pkg/goroutine"
	"github.com/anonpersonals/personals/internal/pkg/hash"
	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/messaging"
	"github.com/anonpersonals/personals/internal/pkg/router"
	"github.com/anonpersonals/personals/internal/pkg/storage"
	"github.com/anonpersonals/personals/internal/pkg/uid"
	"github.com/anonpersonals/personals/internal/pkg/validator"
	relayusecase "github.com/anonpersonals/personals/internal/relay/usecase"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/atomic"
)

type Dependency struct {
	Ctx        context.Context
	DBConn     *pgxpool.Pool
	Messaging  messaging.Messaging
	Storage    storage.Storage
	Config     config.Config
	Instrument instrument.Instrumentation
	UID        uid.NumberID
	Clock      clock.Clocker
	Goroutine  *goroutine.Manager
	Validator  validator.Validator
	Router     *router.Router
	Relay      *relayusecase.Usecase
}

func New(dep Dependency) error {
	dbBoard := db.NewDB(dep.DBConn, dep.Instrument)
	mqBoard := mq.NewMessaging(dep.Messaging, dep.Instrument)
	storeBoard := objstore.New(dep.Storage,
		dep.Config.GetString("modules.board.photo_bucket"),
		dep.Config.GetMinute("modules.board.photo_url_ttl_minutes"),
		dep.Instrument)

	ucDep := usecase.Dependency{
		RepoDB:      dbBoard,
		RepoMQ:      mqBoard,
		RepoStorage: storeBoard,
		Config:      dep.Config,
		UID:         dep.UID,
		Clock:       dep.Clock,
		Validator:   dep.Validator,
		HMAC:        hash.NewHMACSHA256(dep.Config.GetString("modules.board.ip_salt")),
		Instrument:  dep.Instrument,
	}
	// A typed nil pointer would still satisfy the interface, so only wire the
	// relay when the module is actually enabled.
	if dep.Relay != nil {
		ucDep.Relay = dep.Relay
	}
	uc := usecase.NewBoard(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if dep.Ctx != nil {
		registerSweeper(dep, uc)
	}

	return nil
}

// registerSweeper runs Cleanup on an interval. The guard skips a tick when
// the previous sweep is still running.
func registerSweeper(dep Dependency, uc *usecase.Usecase) {
	interval := dep.Config.GetMinute("modules.board.sweep_interval_minutes")
	if interval <= 0 {
		interval = time.Hour
	}

	var running atomic.Bool

	dep.Goroutine.Go(dep.Ctx, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		slog.InfoContext(ctx, "Running job for sweeping expired ads", "interval", interval.String())

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if !running.CompareAndSwap(false, true) {
					continue
				}
				if _, err := uc.Cleanup(ctx); err != nil {
					slog.ErrorContext(ctx, "failed to sweep expired ads", "error", err)
				}
				running.Store(false)
			}
		}
	})
}
