package usecase

import (
	"context"
	"log/slog"

	"github.com/anonpersonals/personals/internal/pkg/goerror"
	"github.com/anonpersonals/personals/internal/relay/entity"
)

const defaultDeliveryListLimit = 50

type ConversationDeliveriesInput struct {
	RelayCode string `validate:"required,hexadecimal,len=32"`
	Limit     int32  `validate:"omitempty,min=1,max=200"`
}

// ConversationDeliveries lists the delivery log of a conversation, newest
// first. Admin only; this is the moderation view into whether relayed mail
// actually went out.
func (s *Usecase) ConversationDeliveries(ctx context.Context, in ConversationDeliveriesInput) ([]entity.Delivery, error) {
	ctx, span := s.startSpan(ctx, "ConversationDeliveries")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	limit := in.Limit
	if limit == 0 {
		limit = defaultDeliveryListLimit
	}

	list, err := s.repoDB.ListDeliveriesByConversationCode(ctx, in.RelayCode, limit)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo list deliveries", "error", err)
		return nil, goerror.NewServer(err)
	}

	return list, nil
}
