package db

import (
	"context"
	"time"

	"github.com/anonpersonals/personals/internal/board/entity"
)

const getPosterBehaviorQuery = `
SELECT ip_hash, ads_posted, up_votes_given, down_votes_given, last_activity
FROM user_behavior
WHERE ip_hash = $1`

func (s *DB) GetPosterBehavior(ctx context.Context, ipHash string) (_ *entity.PosterBehavior, err error) {
	ctx, span := s.startSpan(ctx, "GetPosterBehavior")
	defer func() { s.endSpan(span, err) }()

	var pb entity.PosterBehavior
	err = s.conn.QueryRow(ctx, getPosterBehaviorQuery, ipHash).
		Scan(&pb.IPHash, &pb.AdsPosted, &pb.UpVotesGiven, &pb.DownVotesGiven, &pb.LastActivity)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &pb, nil
}

const recordAdPostedQuery = `
INSERT INTO user_behavior (ip_hash, ads_posted, last_activity)
VALUES ($1, 1, $2)
ON CONFLICT (ip_hash) DO UPDATE SET
	ads_posted = user_behavior.ads_posted + 1,
	last_activity = EXCLUDED.last_activity`

func (s *DB) RecordAdPosted(ctx context.Context, ipHash string, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "RecordAdPosted")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, recordAdPostedQuery, ipHash, at)
	return s.mapError(err)
}

func (s *DB) RecordVoteGiven(ctx context.Context, ipHash string, voteType entity.VoteType, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "RecordVoteGiven")
	defer func() { s.endSpan(span, err) }()

	column := voteGivenColumn(voteType)
	query := `
INSERT INTO user_behavior (ip_hash, ` + column + `, last_activity)
VALUES ($1, 1, $2)
ON CONFLICT (ip_hash) DO UPDATE SET
	` + column + ` = user_behavior.` + column + ` + 1,
	last_activity = EXCLUDED.last_activity`

	_, err = s.conn.Exec(ctx, query, ipHash, at)
	return s.mapError(err)
}

// SwapVoteGiven moves one unit from the opposite counter after a vote flip.
func (s *DB) SwapVoteGiven(ctx context.Context, ipHash string, voteType entity.VoteType, at time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "SwapVoteGiven")
	defer func() { s.endSpan(span, err) }()

	to := voteGivenColumn(voteType)
	from := voteGivenColumn(oppositeVote(voteType))
	query := `
UPDATE user_behavior
SET ` + to + ` = ` + to + ` + 1,
	` + from + ` = GREATEST(` + from + ` - 1, 0),
	last_activity = $2
WHERE ip_hash = $1`

	_, err = s.conn.Exec(ctx, query, ipHash, at)
	return s.mapError(err)
}

func voteGivenColumn(t entity.VoteType) string {
	if t == entity.VoteTypeDown {
		return "down_votes_given"
	}
	return "up_votes_given"
}

func oppositeVote(t entity.VoteType) entity.VoteType {
	if t == entity.VoteTypeUp {
		return entity.VoteTypeDown
	}
	return entity.VoteTypeUp
}
