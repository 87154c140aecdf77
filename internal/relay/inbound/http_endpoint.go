package inbound

import (
	"github.com/anonpersonals/personals/internal/pkg/goerror"
	"github.com/anonpersonals/personals/internal/pkg/router"
	"github.com/anonpersonals/personals/internal/relay/usecase"
)

type HTTPEndpoint struct {
	uc uc
}

// Contact relays an inquirer's message to the poster of an ad.
func (h *HTTPEndpoint) Contact(r *router.Request) (any, error) {
	var req ContactRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	out, err := h.uc.SendMessage(r.Context(), usecase.SendMessageInput{
		AdID:        req.AdID,
		SenderEmail: req.SenderEmail,
		SenderName:  req.SenderName,
		Subject:     req.Subject,
		Message:     req.Message,
	})
	if err != nil {
		return nil, err
	}

	return ContactResponse{RelayCode: out.RelayCode}, nil
}

// InboundWebhook receives parsed inbound mail from the provider and routes it
// through the conversation directory. The response deliberately reveals
// nothing about why a message was dropped.
func (h *HTTPEndpoint) InboundWebhook(r *router.Request) (any, error) {
	var req InboundWebhookRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	ok := h.uc.ProcessIncomingReply(r.Context(), usecase.ProcessIncomingReplyInput{
		To:      req.To,
		From:    req.From,
		Subject: req.Subject,
		Text:    req.Text,
		HTML:    req.HTML,
	})
	if !ok {
		return nil, goerror.NewInvalidFormat("Unable to process message")
	}

	return InboundWebhookResponse{Success: true}, nil
}

// ConversationDeactivate closes a conversation by relay code.
func (h *HTTPEndpoint) ConversationDeactivate(r *router.Request) (any, error) {
	return nil, h.uc.ConversationDeactivate(r.Context(), usecase.ConversationDeactivateInput{
		RelayCode: r.GetParam("relay_code"),
	})
}

// ConversationDeliveries lists the delivery log of a conversation for
// moderation.
func (h *HTTPEndpoint) ConversationDeliveries(r *router.Request) (any, error) {
	limit, err := r.GetQueryInt32("limit")
	if err != nil {
		return nil, err
	}

	list, err := h.uc.ConversationDeliveries(r.Context(), usecase.ConversationDeliveriesInput{
		RelayCode: r.GetParam("relay_code"),
		Limit:     limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]DeliveryResponse, 0, len(list))
	for _, dl := range list {
		out = append(out, DeliveryResponse{
			ID:        dl.ID,
			Direction: dl.Direction.String(),
			Recipient: dl.Recipient,
			Provider:  dl.Provider,
			MessageID: dl.MessageID,
			Status:    dl.Status.String(),
			CreatedAt: dl.CreatedAt,
		})
	}

	return out, nil
}

// TransportCheck reports the configured mail transport and whether its
// credentials pass a live probe.
func (h *HTTPEndpoint) TransportCheck(r *router.Request) (any, error) {
	out := h.uc.TransportCheck(r.Context())

	return TransportCheckResponse{Driver: out.Driver, Healthy: out.Healthy}, nil
}
