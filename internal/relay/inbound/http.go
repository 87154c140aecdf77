package inbound

import (
	"github.com/anonpersonals/personals/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/relay/contact", end.Contact)
	r.POST("/api/v1/relay/inbound", end.InboundWebhook)
	r.DELETE("/api/v1/relay/conversations/:relay_code", end.ConversationDeactivate)
	r.GET("/api/v1/relay/conversations/:relay_code/deliveries", end.ConversationDeliveries)
	r.GET("/api/v1/relay/transport/check", end.TransportCheck)
}
