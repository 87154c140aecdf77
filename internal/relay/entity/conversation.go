package entity

import "time"

// Conversation links an inquirer and a poster through a relay code without
// either side learning the other's address.
type Conversation struct {
	ID             int64
	AdID           int64
	RelayCode      string
	SenderEmail    string
	RecipientEmail string
	CreatedAt      time.Time
	LastUsed       time.Time
	IsActive       bool
}

// AdContact is the slice of an ad the relay needs to route mail.
type AdContact struct {
	ID           int64
	Title        string
	ContactEmail string
	RelayEmail   string
	IsActive     bool
}
