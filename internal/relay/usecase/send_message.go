package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/anonpersonals/personals/internal/pkg/goerror"
	"github.com/anonpersonals/personals/internal/pkg/valueobject"
	"github.com/anonpersonals/personals/internal/relay/entity"
)

type SendMessageInput struct {
	AdID        int64  `validate:"required,gt=0"`
	SenderEmail string `validate:"required,email"`
	SenderName  string `validate:"omitempty,max=100"`
	Subject     string `validate:"required,max=200"`
	Message     string `validate:"required,max=10000"`
}

type SendMessageOutput struct {
	RelayCode string
}

// SendMessage relays an inquirer's first (or follow-up) message to the poster
// behind the ad's relay address.
//
// The conversation row is written after validation and before the provider
// send, so a failed send leaves a resumable conversation behind.
func (s *Usecase) SendMessage(ctx context.Context, in SendMessageInput) (*SendMessageOutput, error) {
	ctx, span := s.startSpan(ctx, "SendMessage")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	ad, err := s.repoDB.GetAdContact(ctx, in.AdID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Ad not found", goerror.CodeNotFound)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get ad contact", "ad_id", in.AdID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !ad.IsActive {
		return nil, goerror.NewBusiness("Ad is no longer active", goerror.CodeNotFound)
	}
	if ad.ContactEmail == "" {
		return nil, goerror.NewBusiness("This ad does not accept email contact", goerror.CodeInvalidInput)
	}

	limit, err := s.limiter.Allow(ctx, in.SenderEmail)
	if err != nil {
		slog.ErrorContext(ctx, "failed to check contact rate limit", "ad_id", in.AdID, "error", err)
		return nil, goerror.NewServer(err)
	}
	if !limit.Allowed {
		return nil, goerror.NewBusiness("Too many messages, please try again later", goerror.CodeTooManyRequest)
	}

	conv, err := s.findOrCreateConversation(ctx, ad, in.SenderEmail)
	if err != nil {
		return nil, err
	}

	senderName := in.SenderName
	if senderName == "" {
		senderName = "Anonymous"
	}

	if err := s.forward(ctx, forwardInput{
		Conversation: conv,
		Direction:    entity.DirectionOutbound,
		To:           ad.ContactEmail,
		Subject:      in.Subject,
		TextBody:     s.contactTextBody(ad, senderName, in.Subject, in.Message, conv.RelayCode),
		HTMLBody:     s.contactHTMLBody(ad, senderName, in.Subject, in.Message, conv.RelayCode),
	}); err != nil {
		return nil, goerror.NewServer(err)
	}

	return &SendMessageOutput{RelayCode: conv.RelayCode}, nil
}

// findOrCreateConversation returns the active conversation for (ad, sender),
// minting one when none exists. A concurrent create races into the partial
// unique index; the loser re-reads the winner's row.
func (s *Usecase) findOrCreateConversation(ctx context.Context, ad *entity.AdContact, senderEmail string) (*entity.Conversation, error) {
	conv, err := s.repoDB.GetActiveConversationByAdSender(ctx, ad.ID, senderEmail)
	if err == nil {
		if err := s.repoDB.TouchConversation(ctx, conv.ID, s.clock.Now()); err != nil {
			slog.ErrorContext(ctx, "failed to repo touch conversation", "conversation_id", conv.ID, "error", err)
		}
		return conv, nil
	}
	if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get conversation by ad sender", "ad_id", ad.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	code, err := randomHex(relayCodeBytes)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate relay code", "ad_id", ad.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	now := s.clock.Now()
	next := entity.Conversation{
		ID:             s.uid.Generate(),
		AdID:           ad.ID,
		RelayCode:      code,
		SenderEmail:    senderEmail,
		RecipientEmail: ad.ContactEmail,
		CreatedAt:      now,
		LastUsed:       now,
		IsActive:       true,
	}

	err = s.repoDB.CreateConversation(ctx, next)
	if errors.Is(err, goerror.ErrConflict) {
		conv, err = s.repoDB.GetActiveConversationByAdSender(ctx, ad.ID, senderEmail)
		if err != nil {
			slog.ErrorContext(ctx, "failed to repo re-get conversation after conflict", "ad_id", ad.ID, "error", err)
			return nil, goerror.NewServer(err)
		}
		return conv, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo create conversation", "ad_id", ad.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &next, nil
}

func (s *Usecase) contactTextBody(ad *entity.AdContact, senderName, subject, message, relayCode string) string {
	return fmt.Sprintf(
		"You have a new message about your ad %q.\n\n"+
			"From: %s\nSubject: %s\n\n%s\n\n"+
			"---\nReply to this email to respond. Your address stays private.\n"+
			"Ad: %s\nConversation: %s\n",
		ad.Title, senderName, subject, message, s.adLink(ad.ID), relayCode)
}

func (s *Usecase) contactHTMLBody(ad *entity.AdContact, senderName, subject, message, relayCode string) string {
	return fmt.Sprintf(
		`<p>You have a new message about your ad <strong>%s</strong>.</p>`+
			`<p><strong>From:</strong> %s<br><strong>Subject:</strong> %s</p>`+
			`<blockquote>%s</blockquote>`+
			`<hr><p>Reply to this email to respond. Your address stays private.<br>`+
			`<a href="%s">View ad</a> &middot; Conversation %s</p>`,
		html.EscapeString(ad.Title), html.EscapeString(senderName), html.EscapeString(subject),
		html.EscapeString(message), s.adLink(ad.ID), relayCode)
}

type forwardInput struct {
	Conversation *entity.Conversation
	Direction    entity.Direction
	To           string
	Subject      string
	TextBody     string
	HTMLBody     string
}

// forward logs a delivery, hands the message to the transport, and records
// the provider outcome. The Reply-To always points back at the relay.
func (s *Usecase) forward(ctx context.Context, in forwardInput) error {
	dl := entity.CreateDelivery{
		ID:             s.uid.Generate(),
		ConversationID: in.Conversation.ID,
		Direction:      in.Direction,
		Recipient:      in.To,
		Status:         entity.DeliveryStatusQueued,
	}
	if err := s.repoDB.CreateDelivery(ctx, dl); err != nil {
		slog.ErrorContext(ctx, "failed to repo create delivery log", "conversation_id", in.Conversation.ID, "error", err)
		return err
	}

	res, sendErr := s.repoMail.Send(ctx, mailMessage(in, s.relayAddress(in.Conversation.RelayCode)))
	if sendErr != nil {
		up := entity.UpdateDelivery{
			ID:               dl.ID,
			Status:           entity.DeliveryStatusFailed,
			ProviderResponse: valueobject.JSONMap{"error": sendErr.Error()},
		}
		if err := s.repoDB.UpdateDeliveryStatus(ctx, up); err != nil {
			slog.ErrorContext(ctx, "failed to repo update delivery log status failed", "delivery_id", dl.ID, "error", err)
		}
		slog.ErrorContext(ctx, "failed to send relay email", "conversation_id", in.Conversation.ID, "direction", in.Direction.String(), "error", sendErr)
		return sendErr
	}

	up := entity.UpdateDelivery{
		ID:               dl.ID,
		Status:           entity.DeliveryStatusSent,
		Provider:         res.Provider,
		MessageID:        res.MessageID,
		ProviderResponse: valueobject.JSONMap{},
	}
	if err := s.repoDB.UpdateDeliveryStatus(ctx, up); err != nil {
		slog.ErrorContext(ctx, "failed to repo update delivery log status sent", "delivery_id", dl.ID, "error", err)
	}

	return nil
}
