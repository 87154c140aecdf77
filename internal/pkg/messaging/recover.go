package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/anonpersonals/personals/internal/pkg/stacktrace"
)

// callHandlerWithRecover shields a broker's consume loop from handler
// panics. A panic in one relayed message must not take down the consumer
// for everything behind it, so the panic becomes an error the caller can
// ack or nack on.
func callHandlerWithRecover(ctx context.Context, kind string, fn func() error) (err error) {
	defer func() {
		rvr := recover()
		if rvr == nil {
			return
		}

		stack := debug.Stack()
		paths := stacktrace.InternalPaths(stack)
		if len(paths) == 0 {
			slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", string(stack))
		} else {
			slog.ErrorContext(ctx, "panic in messaging handler", "kind", kind, "panic", rvr, "stack", paths)
		}
		err = fmt.Errorf("pkgmessage: panic in %s handler: %v", kind, rvr)
	}()

	return fn()
}
