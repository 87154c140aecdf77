package entity

import (
	"time"

	"github.com/anonpersonals/personals/internal/pkg/valueobject"
)

// Direction tells which way a relayed message traveled.
type Direction int

const (
	DirectionUnknown Direction = iota
	// DirectionOutbound is the initial contact, inquirer to poster.
	DirectionOutbound
	// DirectionToSender is a poster reply forwarded to the inquirer.
	DirectionToSender
	// DirectionToRecipient is an inquirer reply forwarded to the poster.
	DirectionToRecipient
)

// String returns the string representation of the direction.
func (d Direction) String() string {
	switch d {
	case DirectionOutbound:
		return "outbound"
	case DirectionToSender:
		return "to_sender"
	case DirectionToRecipient:
		return "to_recipient"
	default:
		return "unknown"
	}
}

// DeliveryStatus is the lifecycle state of a delivery log row.
type DeliveryStatus int

const (
	DeliveryStatusUnknown DeliveryStatus = iota
	DeliveryStatusQueued
	DeliveryStatusSent
	DeliveryStatusFailed
)

// String returns the string representation of the delivery status.
func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusQueued:
		return "queued"
	case DeliveryStatusSent:
		return "sent"
	case DeliveryStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ParseDirection maps a stored direction string back to its constant.
func ParseDirection(s string) Direction {
	switch s {
	case "outbound":
		return DirectionOutbound
	case "to_sender":
		return DirectionToSender
	case "to_recipient":
		return DirectionToRecipient
	default:
		return DirectionUnknown
	}
}

// ParseDeliveryStatus maps a stored status string back to its constant.
func ParseDeliveryStatus(s string) DeliveryStatus {
	switch s {
	case "queued":
		return DeliveryStatusQueued
	case "sent":
		return DeliveryStatusSent
	case "failed":
		return DeliveryStatusFailed
	default:
		return DeliveryStatusUnknown
	}
}

// CreateDelivery is the insert shape for the delivery log.
type CreateDelivery struct {
	ID             int64
	ConversationID int64
	Direction      Direction
	Recipient      string
	Status         DeliveryStatus
}

// UpdateDelivery records the provider outcome of a delivery attempt.
type UpdateDelivery struct {
	ID               int64
	Status           DeliveryStatus
	Provider         string
	MessageID        string
	ProviderResponse valueobject.JSONMap
}

// Delivery is a full delivery log row.
type Delivery struct {
	ID               int64
	ConversationID   int64
	Direction        Direction
	Recipient        string
	Provider         string
	MessageID        string
	Status           DeliveryStatus
	ProviderResponse valueobject.JSONMap
	CreatedAt        time.Time
}
