package db

import (
	"context"

	"github.com/anonpersonals/personals/internal/relay/entity"
)

const getAdContactQuery = `
SELECT id, title, COALESCE(contact_email, ''), COALESCE(relay_email, ''), is_active
FROM ads
WHERE id = $1`

func (s *DB) GetAdContact(ctx context.Context, adID int64) (_ *entity.AdContact, err error) {
	ctx, span := s.startSpan(ctx, "GetAdContact")
	defer func() { s.endSpan(span, err) }()

	var ad entity.AdContact
	err = s.conn.QueryRow(ctx, getAdContactQuery, adID).
		Scan(&ad.ID, &ad.Title, &ad.ContactEmail, &ad.RelayEmail, &ad.IsActive)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &ad, nil
}

const saveAdRelayQuery = `
UPDATE ads
SET contact_email = $2, relay_email = $3
WHERE id = $1`

func (s *DB) SaveAdRelay(ctx context.Context, adID int64, contactEmail, relayEmail string) (err error) {
	ctx, span := s.startSpan(ctx, "SaveAdRelay")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, saveAdRelayQuery, adID, contactEmail, relayEmail)
	return s.mapError(err)
}
