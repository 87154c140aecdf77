package inbound

import "time"

type ContactRequest struct {
	AdID        int64  `json:"ad_id"`
	SenderEmail string `json:"sender_email"`
	SenderName  string `json:"sender_name"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
}

type ContactResponse struct {
	RelayCode string `json:"relay_code"`
}

// InboundWebhookRequest is the normalized shape every supported provider's
// inbound-parse payload is mapped to before it reaches this endpoint.
type InboundWebhookRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

type InboundWebhookResponse struct {
	Success bool `json:"success"`
}

type TransportCheckResponse struct {
	Driver  string `json:"driver"`
	Healthy bool   `json:"healthy"`
}

// DeliveryResponse is one delivery log row. The recipient address is shown
// as stored; this surface is admin only.
type DeliveryResponse struct {
	ID        int64     `json:"id"`
	Direction string    `json:"direction"`
	Recipient string    `json:"recipient"`
	Provider  string    `json:"provider,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}
