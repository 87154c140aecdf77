package event

const InboundEmailDestination string = "inbound_email"
const InboundEmailDestinationConsumerRelay string = "inbound_email_relay"

// InboundEmailMessage is the normalized form of a provider inbound webhook,
// published so reply processing survives webhook handler restarts.
type InboundEmailMessage struct {
	To        string `json:"to"`
	From      string `json:"from"`
	Subject   string `json:"subject"`
	TextBody  string `json:"text_body"`
	HTMLBody  string `json:"html_body"`
	MessageID string `json:"message_id"`
}
