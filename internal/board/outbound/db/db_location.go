package db

import (
	"context"

	"github.com/anonpersonals/personals/internal/board/entity"
)

const listLocationsQuery = `
SELECT name, ad_count
FROM locations
WHERE ad_count > 0
ORDER BY ad_count DESC, name ASC`

func (s *DB) ListLocations(ctx context.Context) (_ []entity.Location, err error) {
	ctx, span := s.startSpan(ctx, "ListLocations")
	defer func() { s.endSpan(span, err) }()

	rows, err := s.conn.Query(ctx, listLocationsQuery)
	if err != nil {
		return nil, s.mapError(err)
	}
	defer rows.Close()

	var items []entity.Location
	for rows.Next() {
		var loc entity.Location
		if err := rows.Scan(&loc.Name, &loc.AdCount); err != nil {
			return nil, s.mapError(err)
		}
		items = append(items, loc)
	}

	return items, s.mapError(rows.Err())
}

const incrementLocationQuery = `
INSERT INTO locations (name, ad_count)
VALUES ($1, 1)
ON CONFLICT (name) DO UPDATE SET ad_count = locations.ad_count + 1`

func (s *DB) IncrementLocation(ctx context.Context, name string) (err error) {
	ctx, span := s.startSpan(ctx, "IncrementLocation")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, incrementLocationQuery, name)
	return s.mapError(err)
}

const decrementLocationQuery = `
UPDATE locations
SET ad_count = GREATEST(ad_count - 1, 0)
WHERE name = $1`

const pruneLocationQuery = `DELETE FROM locations WHERE name = $1 AND ad_count = 0`

func (s *DB) DecrementLocation(ctx context.Context, name string) (err error) {
	ctx, span := s.startSpan(ctx, "DecrementLocation")
	defer func() { s.endSpan(span, err) }()

	if _, err = s.conn.Exec(ctx, decrementLocationQuery, name); err != nil {
		return s.mapError(err)
	}

	_, err = s.conn.Exec(ctx, pruneLocationQuery, name)
	return s.mapError(err)
}
