package inbound

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/anonpersonals/personals/internal/pkg/config"
	"github.com/anonpersonals/personals/internal/pkg/goroutine"
	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/messaging"
	"github.com/anonpersonals/personals/internal/pkg/uid"
	"github.com/anonpersonals/personals/internal/shared/event"
	"github.com/sethvargo/go-retry"
)

func RegisterMQConsumer(
	ctx context.Context,
	cfg config.Config,
	routine *goroutine.Manager,
	messenger messaging.Messaging,
	uuid uid.StringID,
	uc uc,
	ins instrument.Instrumentation,
) {
	mqHandler := &MQHandler{uc: uc, uuid: uuid, ins: ins}

	enableConsumerNames := cfg.GetArray("modules.relay.consumer_names")

	var consumers = []struct {
		name    string
		topic   string
		handler messaging.Handler
	}{
		{
			name:    event.AdDeactivatedDestinationConsumerRelay,
			topic:   event.AdDeactivatedDestination,
			handler: mqHandler.AdDeactivated,
		},
		{
			name:    event.InboundEmailDestinationConsumerRelay,
			topic:   event.InboundEmailDestination,
			handler: mqHandler.InboundEmail,
		},
	}

	for _, consumer := range consumers {
		if len(enableConsumerNames) > 0 && slices.Contains(enableConsumerNames, consumer.name) {
			routine.Go(ctx, func(pCtx context.Context) error {
				slog.InfoContext(ctx, "Running job for handling consumer", "consumer", consumer.name)

				// Broker outages are survived with fibonacci backoff instead of
				// killing the consumer goroutine.
				backoff := retry.WithMaxDuration(time.Hour, retry.NewFibonacci(time.Second))
				return retry.Do(pCtx, backoff, func(rCtx context.Context) error {
					err := messenger.Consume(rCtx,
						consumer.topic,
						consumer.handler,
						messaging.WithChannel(consumer.name),
						messaging.WithQueueGroup(consumer.name),
						messaging.WithGroup(consumer.name),
						messaging.WithSubscription(consumer.name),
						messaging.WithAutoAck(true),
						messaging.WithConcurrency(10),
						messaging.WithMaxInFlight(10),
					)
					if err != nil && rCtx.Err() == nil {
						slog.ErrorContext(rCtx, "consumer stopped, backing off", "consumer", consumer.name, "error", err)
						return retry.RetryableError(err)
					}
					return err
				})
			})
		}
	}
}
