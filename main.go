package main

import (
	"context"
	"time"

	"github.com/anonpersonals/personals/internal/app"
)

func main() {
	application := app.New()
	<-application.Start()

	// Give in-flight requests and MQ handlers a bounded window to drain.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx)
}
