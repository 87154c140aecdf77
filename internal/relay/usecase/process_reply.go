package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"html"
	"log/slog"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/anonpersonals/personals/internal/pkg/goerror"
	"github.com/anonpersonals/personals/internal/pkg/idempotency"
	"github.com/anonpersonals/personals/internal/relay/entity"
)

// Internal routing outcomes. These are logged for operators but never leak to
// the webhook caller, who only learns success or failure.
const (
	reasonDuplicate    = "duplicate"
	reasonBadAddress   = "bad_address"
	reasonUnknownCode  = "unknown_code"
	reasonUnauthorized = "unauthorized_sender"
	reasonLookupFailed = "lookup_failed"
	reasonSendFailed   = "send_failed"
)

type ProcessIncomingReplyInput struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

// ProcessIncomingReply routes a reply that arrived at a relay address.
//
// The boolean is the entire external contract: true when the message was
// forwarded (or already had been), false otherwise. Unknown codes and
// unauthorized senders are dropped without side effects.
func (s *Usecase) ProcessIncomingReply(ctx context.Context, in ProcessIncomingReplyInput) bool {
	ctx, span := s.startSpan(ctx, "ProcessIncomingReply")
	defer span.End()

	key := inboundDedupeKey(in)
	state, err := s.idem.Acquire(ctx, key, time.Minute)
	if err != nil {
		// Dedupe is best effort; a broken redis must not drop mail.
		slog.WarnContext(ctx, "inbound dedupe unavailable", "error", err)
	}
	if state == idempotency.StateInProgress || state == idempotency.StateCompleted {
		slog.InfoContext(ctx, "inbound reply dropped", "reason", reasonDuplicate, "to", in.To)
		return true
	}

	ok, reason := s.routeReply(ctx, in)
	if ok {
		if err := s.idem.MarkCompleted(ctx, key, time.Hour); err != nil {
			slog.WarnContext(ctx, "failed to mark inbound reply completed", "error", err)
		}
		return true
	}

	if err := s.idem.MarkFailed(ctx, key, time.Minute); err != nil {
		slog.WarnContext(ctx, "failed to mark inbound reply failed", "error", err)
	}
	slog.WarnContext(ctx, "inbound reply dropped", "reason", reason, "to", in.To)

	return false
}

func (s *Usecase) routeReply(ctx context.Context, in ProcessIncomingReplyInput) (bool, string) {
	code := relayCodeFromAddress(in.To)
	if code == "" {
		return false, reasonBadAddress
	}

	conv, err := s.repoDB.GetActiveConversationByCode(ctx, code)
	if errors.Is(err, goerror.ErrNotFound) {
		return false, reasonUnknownCode
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get conversation by code", "error", err)
		return false, reasonLookupFailed
	}

	from := normalizeAddress(in.From)

	var direction entity.Direction
	var forwardTo string
	switch {
	case strings.EqualFold(from, conv.RecipientEmail):
		direction = entity.DirectionToSender
		forwardTo = conv.SenderEmail
	case strings.EqualFold(from, conv.SenderEmail):
		direction = entity.DirectionToRecipient
		forwardTo = conv.RecipientEmail
	default:
		return false, reasonUnauthorized
	}

	text := in.Text
	if text == "" && in.HTML != "" {
		text = "This message contains HTML content only."
	}

	if err := s.forward(ctx, forwardInput{
		Conversation: conv,
		Direction:    direction,
		To:           forwardTo,
		Subject:      replySubject(in.Subject),
		TextBody:     s.replyTextBody(text, conv.RelayCode),
		HTMLBody:     s.replyHTMLBody(in.HTML, text, conv.RelayCode),
	}); err != nil {
		return false, reasonSendFailed
	}

	if err := s.repoDB.TouchConversation(ctx, conv.ID, s.clock.Now()); err != nil {
		slog.ErrorContext(ctx, "failed to repo touch conversation", "conversation_id", conv.ID, "error", err)
	}

	return true, ""
}

func (s *Usecase) replyTextBody(text, relayCode string) string {
	return fmt.Sprintf(
		"%s\n\n---\nReply to this email to continue the conversation. Your address stays private.\nConversation: %s\n",
		text, relayCode)
}

func (s *Usecase) replyHTMLBody(htmlBody, text, relayCode string) string {
	body := htmlBody
	if body == "" {
		body = "<p>" + html.EscapeString(text) + "</p>"
	}

	return fmt.Sprintf(
		`%s<hr><p>Reply to this email to continue the conversation. Your address stays private.<br>Conversation %s</p>`,
		body, relayCode)
}

// relayCodeFromAddress extracts the conversation code from the local part of
// a relay address.
func relayCodeFromAddress(to string) string {
	addr := normalizeAddress(to)
	local, _, found := strings.Cut(addr, "@")
	if !found {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(local))
}

// normalizeAddress unwraps "Display Name <addr>" forms.
func normalizeAddress(raw string) string {
	parsed, err := netmail.ParseAddress(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return parsed.Address
}

func inboundDedupeKey(in ProcessIncomingReplyInput) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		normalizeAddress(in.To),
		normalizeAddress(in.From),
		in.Subject,
		in.Text,
	}, "\x00")))
	return "relay:inbound:" + hex.EncodeToString(sum[:])
}
