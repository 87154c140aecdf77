package db

import (
	"context"
	"fmt"
	"time"

	"github.com/anonpersonals/personals/internal/board/entity"
)

const adColumns = `id, title, body, location, COALESCE(contact_email, ''), COALESCE(relay_email, ''),
COALESCE(photo_key, ''), ip_hash, repost_count, up_votes, down_votes, is_active, created_at, expires_at`

const createAdQuery = `
INSERT INTO ads (id, title, body, location, ip_hash, repost_count, is_active, created_at, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8)`

func (s *DB) CreateAd(ctx context.Context, data entity.CreateAd) (err error) {
	ctx, span := s.startSpan(ctx, "CreateAd")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, createAdQuery,
		data.ID, data.Title, data.Body, data.Location, data.IPHash,
		data.RepostCount, data.CreatedAt, data.ExpiresAt)
	return s.mapError(err)
}

const getAdByIDQuery = `SELECT ` + adColumns + ` FROM ads WHERE id = $1`

func (s *DB) GetAdByID(ctx context.Context, id int64) (_ *entity.Ad, err error) {
	ctx, span := s.startSpan(ctx, "GetAdByID")
	defer func() { s.endSpan(span, err) }()

	return s.scanAd(s.conn.QueryRow(ctx, getAdByIDQuery, id))
}

const getActiveAdByIPHashQuery = `
SELECT ` + adColumns + `
FROM ads
WHERE ip_hash = $1 AND is_active AND expires_at > NOW()
ORDER BY created_at DESC
LIMIT 1`

func (s *DB) GetActiveAdByIPHash(ctx context.Context, ipHash string) (_ *entity.Ad, err error) {
	ctx, span := s.startSpan(ctx, "GetActiveAdByIPHash")
	defer func() { s.endSpan(span, err) }()

	return s.scanAd(s.conn.QueryRow(ctx, getActiveAdByIPHashQuery, ipHash))
}

const countIdenticalAdsQuery = `
SELECT COUNT(*) FROM ads
WHERE ip_hash = $1 AND title = $2 AND body = $3`

func (s *DB) CountIdenticalAds(ctx context.Context, ipHash, title, body string) (_ int32, err error) {
	ctx, span := s.startSpan(ctx, "CountIdenticalAds")
	defer func() { s.endSpan(span, err) }()

	var count int32
	err = s.conn.QueryRow(ctx, countIdenticalAdsQuery, ipHash, title, body).Scan(&count)
	return count, s.mapError(err)
}

const updateAdQuery = `
UPDATE ads
SET title = $3, body = $4, location = $5
WHERE id = $1 AND ip_hash = $2 AND is_active`

func (s *DB) UpdateAd(ctx context.Context, data entity.UpdateAd) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "UpdateAd")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, updateAdQuery, data.ID, data.IPHash, data.Title, data.Body, data.Location)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() > 0, nil
}

const deactivateAdQuery = `
UPDATE ads
SET is_active = FALSE
WHERE id = $1 AND ip_hash = $2 AND is_active
RETURNING ` + adColumns

func (s *DB) DeactivateAd(ctx context.Context, id int64, ipHash string) (_ *entity.Ad, err error) {
	ctx, span := s.startSpan(ctx, "DeactivateAd")
	defer func() { s.endSpan(span, err) }()

	return s.scanAd(s.conn.QueryRow(ctx, deactivateAdQuery, id, ipHash))
}

const setAdPhotoQuery = `
UPDATE ads
SET photo_key = $3
WHERE id = $1 AND ip_hash = $2 AND is_active`

func (s *DB) SetAdPhoto(ctx context.Context, id int64, ipHash, photoKey string) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "SetAdPhoto")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, setAdPhotoQuery, id, ipHash, photoKey)
	if err != nil {
		return false, s.mapError(err)
	}

	return tag.RowsAffected() > 0, nil
}

func (s *DB) ListAds(ctx context.Context, filter entity.AdListFilter) (_ []entity.Ad, err error) {
	ctx, span := s.startSpan(ctx, "ListAds")
	defer func() { s.endSpan(span, err) }()

	query := `SELECT ` + adColumns + ` FROM ads WHERE is_active AND expires_at > NOW()`
	args := make([]any, 0, 4)

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR body ILIKE $%d)", len(args), len(args))
	}
	if filter.Location != "" {
		args = append(args, filter.Location)
		query += fmt.Sprintf(" AND location = $%d", len(args))
	}

	switch filter.Sort {
	case entity.SortPopular:
		query += " ORDER BY (up_votes - down_votes) DESC, created_at DESC"
	case entity.SortControversial:
		query += " ORDER BY LEAST(up_votes, down_votes) DESC, (up_votes + down_votes) DESC, created_at DESC"
	default:
		query += " ORDER BY created_at DESC"
	}

	args = append(args, filter.Limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	items := make([]entity.Ad, 0, filter.Limit)
	for rows.Next() {
		ad, scanErr := s.scanAd(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		items = append(items, *ad)
	}

	return items, s.mapError(rows.Err())
}

const expireAdsQuery = `
UPDATE ads
SET is_active = FALSE
WHERE is_active AND expires_at < $1
RETURNING id, location`

func (s *DB) ExpireAds(ctx context.Context, now time.Time) (_ []entity.ExpiredAd, err error) {
	ctx, span := s.startSpan(ctx, "ExpireAds")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, expireAdsQuery, now)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var expired []entity.ExpiredAd
	for rows.Next() {
		var ad entity.ExpiredAd
		if err := rows.Scan(&ad.ID, &ad.Location); err != nil {
			return nil, s.mapError(err)
		}
		expired = append(expired, ad)
	}

	return expired, s.mapError(rows.Err())
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *DB) scanAd(row rowScanner) (*entity.Ad, error) {
	var ad entity.Ad
	err := row.Scan(&ad.ID, &ad.Title, &ad.Body, &ad.Location, &ad.ContactEmail, &ad.RelayEmail,
		&ad.PhotoKey, &ad.IPHash, &ad.RepostCount, &ad.UpVotes, &ad.DownVotes,
		&ad.IsActive, &ad.CreatedAt, &ad.ExpiresAt)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &ad, nil
}
