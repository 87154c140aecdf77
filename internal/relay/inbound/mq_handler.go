package inbound

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/messaging"
	"github.com/anonpersonals/personals/internal/pkg/uid"
	"github.com/anonpersonals/personals/internal/relay/usecase"
	"github.com/anonpersonals/personals/internal/shared/event"
)

const keyOfCorrelationID string = "cID"

type MQHandler struct {
	uc   uc
	uuid uid.StringID
	ins  instrument.Instrumentation
}

func (h *MQHandler) ensureCorrelationID(ctx context.Context, headers []messaging.Header) context.Context {
	for i := range headers {
		if headers[i].Key == keyOfCorrelationID {
			return instrument.SetCorrelationID(ctx, string(headers[i].Value))
		}
	}
	return instrument.SetCorrelationID(ctx, h.uuid.Generate())
}

func (h *MQHandler) AdDeactivated(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("relay.inbound.mq").Start(ctx, "AdDeactivated")
	defer span.End()

	body := msg.Body()
	slog.InfoContext(ctx, "consume: ad deactivated", "msg_body", string(body))

	var payload event.AdDeactivatedMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of ad deactivated", "msg_body", string(body), "error", err)
		return nil
	}

	if err := h.uc.ConsumeAdDeactivated(ctx, usecase.ConsumeAdDeactivatedInput{
		AdID:   payload.AdID,
		Reason: payload.Reason,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to consume ad deactivated", "msg_body", string(body), "error", err)
		return err
	}

	return nil
}

// InboundEmail handles parsed inbound mail delivered through the broker
// instead of the HTTP webhook. Routing semantics are identical; a dropped
// message is not an error worth redelivering.
func (h *MQHandler) InboundEmail(ctx context.Context, msg messaging.Message) error {
	ctx = h.ensureCorrelationID(ctx, msg.Headers())

	ctx, span := h.ins.Tracer("relay.inbound.mq").Start(ctx, "InboundEmail")
	defer span.End()

	body := msg.Body()

	var payload event.InboundEmailMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		slog.ErrorContext(ctx, "failed to parse message body of inbound email", "error", err)
		return nil
	}

	h.uc.ProcessIncomingReply(ctx, usecase.ProcessIncomingReplyInput{
		To:      payload.To,
		From:    payload.From,
		Subject: payload.Subject,
		Text:    payload.TextBody,
		HTML:    payload.HTMLBody,
	})

	return nil
}
