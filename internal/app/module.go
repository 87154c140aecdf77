package app

import (
	"log/slog"
	"os"

	"github.com/anonpersonals/personals/internal/admin"
	"github.com/anonpersonals/personals/internal/board"
	"github.com/anonpersonals/personals/internal/relay"
	relayusecase "github.com/anonpersonals/personals/internal/relay/usecase"
)

func (a *App) initModules() {
	// Relay is wired first so the board module can mint relay addresses
	// synchronously while creating ads.
	var relayUC *relayusecase.Usecase
	if a.config.GetBool("modules.relay.enabled") {
		uc, err := relay.New(relay.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			UUID:       a.uuid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
			Mail:       a.mail,
			Limiter:    a.limiter,
			Idem:       a.idemp,
		})
		if err != nil {
			slog.Error("failed to init module relay", "error", err)
			os.Exit(1)
		}
		relayUC = uc
	}

	if a.config.GetBool("modules.board.enabled") {
		if err := board.New(board.Dependency{
			Ctx:        a.ctx,
			DBConn:     a.dbConn,
			Messaging:  a.messaging,
			Storage:    a.storage,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Clock:      a.clock,
			Goroutine:  a.goroutine,
			Validator:  a.validator,
			Router:     a.router,
			Relay:      relayUC,
		}); err != nil {
			slog.Error("failed to init module board", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.admin.enabled") {
		if err := admin.New(admin.Dependency{
			Config:     a.config,
			Instrument: a.ins,
			Validator:  a.validator,
			Router:     a.router,
			JWT:        a.jwt,
			Bcrypt:     a.bcrypt,
		}); err != nil {
			slog.Error("failed to init module admin", "error", err)
			os.Exit(1)
		}
	}
}
