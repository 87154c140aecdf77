package instrument

import "context"

type correlationKey struct{}

// SetCorrelationID stores the request correlation ID in the context so
// logging and outgoing messages can carry it forward.
func SetCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// GetCorrelationID reads the correlation ID from the context, or an
// empty string when none was set.
func GetCorrelationID(ctx context.Context) string {
	id, ok := ctx.Value(correlationKey{}).(string)
	if !ok {
		return ""
	}
	return id
}
