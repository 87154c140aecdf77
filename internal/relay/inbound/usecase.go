package inbound

import (
	"context"

	"github.com/anonpersonals/personals/internal/relay/entity"
	"github.com/anonpersonals/personals/internal/relay/usecase"
)

type ucConsumer interface {
	ConsumeAdDeactivated(ctx context.Context, in usecase.ConsumeAdDeactivatedInput) error
	ProcessIncomingReply(ctx context.Context, in usecase.ProcessIncomingReplyInput) bool
}

type uc interface {
	ucConsumer

	SendMessage(ctx context.Context, in usecase.SendMessageInput) (*usecase.SendMessageOutput, error)
	ConversationDeactivate(ctx context.Context, in usecase.ConversationDeactivateInput) error
	ConversationDeliveries(ctx context.Context, in usecase.ConversationDeliveriesInput) ([]entity.Delivery, error)
	TransportCheck(ctx context.Context) *usecase.TransportCheckOutput
}
