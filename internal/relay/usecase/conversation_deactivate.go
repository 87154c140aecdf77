package usecase

import (
	"context"
	"log/slog"

	"github.com/anonpersonals/personals/internal/pkg/goerror"
)

type ConversationDeactivateInput struct {
	RelayCode string `validate:"required,hexadecimal,len=32"`
}

// ConversationDeactivate explicitly closes a conversation so its relay code
// stops routing mail. Admin only.
func (s *Usecase) ConversationDeactivate(ctx context.Context, in ConversationDeactivateInput) error {
	ctx, span := s.startSpan(ctx, "ConversationDeactivate")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	found, err := s.repoDB.DeactivateConversationByCode(ctx, in.RelayCode)
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo deactivate conversation", "error", err)
		return goerror.NewServer(err)
	}
	if !found {
		return goerror.NewBusiness("Conversation not found", goerror.CodeNotFound)
	}

	return nil
}
