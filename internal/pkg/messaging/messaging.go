package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrUnsupported reports a feature the selected broker cannot provide,
// such as delayed delivery on brokers without a native deferral.
var ErrUnsupported = errors.New("pkgmessage: unsupported operation")

// Messaging is a broker client that can both publish and consume. The
// concrete type wraps Kafka, NATS, NSQ or Google Pub/Sub depending on the
// configured driver.
type Messaging interface {
	io.Closer

	Publisher
	Consumer
}

// Publisher sends messages to a named destination (topic, subject or
// queue, depending on the broker).
type Publisher interface {
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// Consumer reads messages from a named source (subscription, channel or
// subject) and feeds them to a handler.
type Consumer interface {
	Consume(ctx context.Context, source string, handler Handler, opts ...ConsumeOption) error
}

// Handler processes one received message. A non-nil error leaves the
// ack decision to the broker binding; some requeue, some leave the
// message unacked.
type Handler func(ctx context.Context, msg Message) error

// OutgoingMessage is the broker-neutral shape of a message to publish.
type OutgoingMessage struct {
	// Body is the payload.
	Body []byte

	// Key routes partitioning on Kafka-style brokers.
	Key []byte

	// Headers allow binary values and repeated keys.
	Headers []Header

	// Attributes maps onto brokers with string attributes, such as Pub/Sub.
	Attributes map[string]string

	// OrderingKey is honored by Google Pub/Sub.
	OrderingKey string

	// Delay defers delivery where the broker supports it.
	Delay time.Duration

	// Metadata carries broker-specific publish settings.
	Metadata map[string]any
}

// Header is one message header entry.
type Header struct {
	Key   string
	Value []byte
}

// PublishResult reports whatever the broker exposes about an accepted
// publish. Fields not applicable to the active broker stay zero.
type PublishResult struct {
	// MessageID is the broker-assigned ID.
	MessageID string

	// Topic, Partition and Offset are filled by Kafka-style brokers.
	Topic     string
	Partition int32
	Offset    int64

	// Sequence is filled by NATS JetStream.
	Sequence uint64

	// Timestamp is when the broker accepted the message.
	Timestamp time.Time

	// Raw exposes the underlying broker result when available.
	Raw any
}

// Message is a received message, independent of broker.
type Message interface {
	// Body returns the payload.
	Body() []byte
	// Key returns the partitioning key, when the broker has one.
	Key() []byte
	// Headers returns message headers.
	Headers() []Header
	// Attributes returns string attributes, when the broker has them.
	Attributes() map[string]string

	// ID returns the broker message ID.
	ID() string
	// Topic returns the topic name when applicable.
	Topic() string
	// Subject returns the subject name when applicable.
	Subject() string
	// Timestamp returns the broker timestamp.
	Timestamp() time.Time

	// Ack marks the message as successfully processed.
	Ack(ctx context.Context) error
}

// Nackable is implemented by messages that can ask for redelivery.
type Nackable interface {
	Nack(ctx context.Context) error
}

// Extendable is implemented by messages whose ack deadline can be pushed
// out while processing runs long.
type Extendable interface {
	Extend(ctx context.Context, d time.Duration) error
}

// MetadataCarrier exposes broker-specific delivery metadata such as
// delivery tags or receipt handles.
type MetadataCarrier interface {
	Metadata() map[string]any
}

// RawCarrier exposes the underlying broker message type.
type RawCarrier interface {
	Raw() any
}
