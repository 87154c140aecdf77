package db

import (
	"context"
	"time"

	"github.com/anonpersonals/personals/internal/relay/entity"
)

const conversationColumns = `id, ad_id, relay_code, sender_email, recipient_email, created_at, last_used, is_active`

const getConversationByAdSenderQuery = `
SELECT ` + conversationColumns + `
FROM relay_conversations
WHERE ad_id = $1 AND LOWER(sender_email) = LOWER($2) AND is_active`

func (s *DB) GetActiveConversationByAdSender(ctx context.Context, adID int64, senderEmail string) (_ *entity.Conversation, err error) {
	ctx, span := s.startSpan(ctx, "GetActiveConversationByAdSender")
	defer func() { s.endSpan(span, err) }()

	return s.scanConversation(s.conn.QueryRow(ctx, getConversationByAdSenderQuery, adID, senderEmail))
}

const getConversationByCodeQuery = `
SELECT ` + conversationColumns + `
FROM relay_conversations
WHERE relay_code = $1 AND is_active`

func (s *DB) GetActiveConversationByCode(ctx context.Context, relayCode string) (_ *entity.Conversation, err error) {
	ctx, span := s.startSpan(ctx, "GetActiveConversationByCode")
	defer func() { s.endSpan(span, err) }()

	return s.scanConversation(s.conn.QueryRow(ctx, getConversationByCodeQuery, relayCode))
}

const createConversationQuery = `
INSERT INTO relay_conversations (id, ad_id, relay_code, sender_email, recipient_email, created_at, last_used, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

func (s *DB) CreateConversation(ctx context.Context, conv entity.Conversation) (err error) {
	ctx, span := s.startSpan(ctx, "CreateConversation")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createConversationQuery,
		conv.ID, conv.AdID, conv.RelayCode, conv.SenderEmail, conv.RecipientEmail,
		conv.CreatedAt, conv.LastUsed, conv.IsActive)
	return s.mapError(err)
}

const touchConversationQuery = `
UPDATE relay_conversations
SET last_used = $2
WHERE id = $1`

func (s *DB) TouchConversation(ctx context.Context, id int64, lastUsed time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "TouchConversation")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, touchConversationQuery, id, lastUsed)
	return s.mapError(err)
}

const deactivateConversationByCodeQuery = `
UPDATE relay_conversations
SET is_active = FALSE
WHERE relay_code = $1 AND is_active`

func (s *DB) DeactivateConversationByCode(ctx context.Context, relayCode string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "DeactivateConversationByCode")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, deactivateConversationByCodeQuery, relayCode)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() > 0, nil
}

const deactivateConversationsByAdQuery = `
UPDATE relay_conversations
SET is_active = FALSE
WHERE ad_id = $1 AND is_active`

func (s *DB) DeactivateConversationsByAd(ctx context.Context, adID int64) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeactivateConversationsByAd")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, deactivateConversationsByAdQuery, adID)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *DB) scanConversation(row rowScanner) (*entity.Conversation, error) {
	var conv entity.Conversation
	err := row.Scan(&conv.ID, &conv.AdID, &conv.RelayCode, &conv.SenderEmail,
		&conv.RecipientEmail, &conv.CreatedAt, &conv.LastUsed, &conv.IsActive)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &conv, nil
}
