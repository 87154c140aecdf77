// Package messaging hides the concrete message broker behind publish and
// subscribe interfaces.
//
// Ad lifecycle events and inbound mail notifications are produced and
// consumed through these interfaces, so the deployment can pick Kafka,
// NATS, NSQ or Google Pub/Sub purely through configuration.
package messaging
