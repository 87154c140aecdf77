package email

import (
	"context"

	"github.com/anonpersonals/personals/internal/pkg/instrument"
	"github.com/anonpersonals/personals/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

// Mail adapts the transport abstraction to the relay usecase, flattening
// provider failures into plain errors so nothing panics past this boundary.
type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func New(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (m *Mail) Send(ctx context.Context, msg mail.Message) (mail.SendResult, error) {
	ctx, span := m.ins.Tracer("relay.outbound.email").Start(ctx, "Send")
	defer span.End()

	res, err := m.client.Send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return mail.SendResult{}, err
	}

	return res, nil
}

func (m *Mail) Test(ctx context.Context) bool {
	ctx, span := m.ins.Tracer("relay.outbound.email").Start(ctx, "Test")
	defer span.End()

	return m.client.Test(ctx)
}
