package db

import (
	"context"

	"github.com/anonpersonals/personals/internal/relay/entity"
)

const createDeliveryQuery = `
INSERT INTO relay_deliveries (id, conversation_id, direction, recipient, status)
VALUES ($1, $2, $3, $4, $5)`

func (s *DB) CreateDelivery(ctx context.Context, data entity.CreateDelivery) (err error) {
	ctx, span := s.startSpan(ctx, "CreateDelivery")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createDeliveryQuery,
		data.ID, data.ConversationID, data.Direction.String(), data.Recipient, data.Status.String())
	return s.mapError(err)
}

const updateDeliveryStatusQuery = `
UPDATE relay_deliveries
SET status = $2, provider = $3, message_id = $4, provider_response = $5
WHERE id = $1`

func (s *DB) UpdateDeliveryStatus(ctx context.Context, data entity.UpdateDelivery) (err error) {
	ctx, span := s.startSpan(ctx, "UpdateDeliveryStatus")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, updateDeliveryStatusQuery,
		data.ID, data.Status.String(), data.Provider, data.MessageID, data.ProviderResponse)
	return s.mapError(err)
}

const listDeliveriesByCodeQuery = `
SELECT d.id, d.conversation_id, d.direction, d.recipient, d.provider, d.message_id,
       d.status, d.provider_response, d.created_at
FROM relay_deliveries d
JOIN relay_conversations c ON c.id = d.conversation_id
WHERE c.relay_code = $1
ORDER BY d.created_at DESC
LIMIT $2`

func (s *DB) ListDeliveriesByConversationCode(ctx context.Context, relayCode string, limit int32) (_ []entity.Delivery, err error) {
	ctx, span := s.startSpan(ctx, "ListDeliveriesByConversationCode")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, listDeliveriesByCodeQuery, relayCode, limit)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var out []entity.Delivery
	for rows.Next() {
		var (
			dl                entity.Delivery
			direction, status string
		)
		err = rows.Scan(&dl.ID, &dl.ConversationID, &direction, &dl.Recipient,
			&dl.Provider, &dl.MessageID, &status, &dl.ProviderResponse, &dl.CreatedAt)
		if err != nil {
			return nil, s.mapError(err)
		}
		dl.Direction = entity.ParseDirection(direction)
		dl.Status = entity.ParseDeliveryStatus(status)
		out = append(out, dl)
	}

	return out, s.mapError(rows.Err())
}
