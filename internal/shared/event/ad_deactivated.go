package event

const AdDeactivatedDestination string = "ad_deactivated"
const AdDeactivatedDestinationConsumerRelay string = "ad_deactivated_relay"

// AdDeactivatedReason enumerates why an ad was taken down.
const (
	AdDeactivatedReasonDeleted = "deleted"
	AdDeactivatedReasonExpired = "expired"
	AdDeactivatedReasonAdmin   = "admin"
)

type AdDeactivatedMessage struct {
	AdID   int64  `json:"ad_id"`
	Reason string `json:"reason"`
}
