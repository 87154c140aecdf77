package db

import (
	"context"
	"errors"
	"log/slog"

	"github.com/anonpersonals/personals/internal/board/entity"
	"github.com/jackc/pgx/v5"
)

const getVoteQuery = `
SELECT ad_id, ip_hash, vote_type
FROM votes
WHERE ad_id = $1 AND ip_hash = $2`

func (s *DB) GetVote(ctx context.Context, adID int64, ipHash string) (_ *entity.Vote, err error) {
	ctx, span := s.startSpan(ctx, "GetVote")
	defer func() { s.endSpan(span, err) }()

	var vote entity.Vote
	var voteType string
	err = s.conn.QueryRow(ctx, getVoteQuery, adID, ipHash).Scan(&vote.AdID, &vote.IPHash, &voteType)
	if err != nil {
		return nil, s.mapError(err)
	}

	vote.Type = entity.ParseVoteType(voteType)

	return &vote, nil
}

const insertVoteQuery = `
INSERT INTO votes (ad_id, ip_hash, vote_type)
VALUES ($1, $2, $3)`

// CastVote inserts a first vote and bumps the matching tally in one
// transaction.
func (s *DB) CastVote(ctx context.Context, vote entity.Vote) (err error) {
	ctx, span := s.startSpan(ctx, "CastVote")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return s.mapError(err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, insertVoteQuery, vote.AdID, vote.IPHash, vote.Type.String()); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx, tallyQuery(vote.Type, +1), vote.AdID); err != nil {
		return s.mapError(err)
	}

	return s.mapError(tx.Commit(ctx))
}

const flipVoteQuery = `
UPDATE votes
SET vote_type = $3
WHERE ad_id = $1 AND ip_hash = $2`

// FlipVote switches an existing vote to the other type and adjusts both
// tallies in one transaction.
func (s *DB) FlipVote(ctx context.Context, vote entity.Vote) (err error) {
	ctx, span := s.startSpan(ctx, "FlipVote")
	defer func() { s.endSpan(span, err) }()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return s.mapError(err)
	}
	defer func() {
		if rErr := tx.Rollback(ctx); rErr != nil && !errors.Is(rErr, pgx.ErrTxClosed) {
			slog.ErrorContext(ctx, "failed to rollback", "error", rErr)
		}
	}()

	if _, err = tx.Exec(ctx, flipVoteQuery, vote.AdID, vote.IPHash, vote.Type.String()); err != nil {
		return s.mapError(err)
	}

	if _, err = tx.Exec(ctx, tallyQuery(vote.Type, +1), vote.AdID); err != nil {
		return s.mapError(err)
	}
	if _, err = tx.Exec(ctx, tallyQuery(oppositeVote(vote.Type), -1), vote.AdID); err != nil {
		return s.mapError(err)
	}

	return s.mapError(tx.Commit(ctx))
}

func tallyQuery(t entity.VoteType, delta int) string {
	column := "up_votes"
	if t == entity.VoteTypeDown {
		column = "down_votes"
	}
	if delta < 0 {
		return "UPDATE ads SET " + column + " = GREATEST(" + column + " - 1, 0) WHERE id = $1"
	}
	return "UPDATE ads SET " + column + " = " + column + " + 1 WHERE id = $1"
}
