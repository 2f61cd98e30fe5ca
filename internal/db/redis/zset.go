package redis

import (
	"context"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/artwatch/internal/db"
)

// ZAdd sets the score of a member.
func (s *Store) ZAdd(ctx context.Context, key, member string, score float64) error {
	cmd := s.b().Zadd().Key(key).ScoreMember().ScoreMember(score, member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZAddGT raises the score of a member, never lowering it.
func (s *Store) ZAddGT(ctx context.Context, key, member string, score float64) error {
	cmd := s.b().Zadd().Key(key).Gt().ScoreMember().ScoreMember(score, member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZAdd, Err: err}
	}
	return nil
}

// ZIncrBy atomically increments the score of a member.
func (s *Store) ZIncrBy(ctx context.Context, key, member string, incr float64) error {
	cmd := s.b().Zincrby().Key(key).Increment(incr).Member(member).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpZIncrBy, Err: err}
	}
	return nil
}

// ZRevRange returns up to limit members by descending score after skipping offset.
// A non-positive limit returns everything after offset.
func (s *Store) ZRevRange(ctx context.Context, key string, offset, limit int) ([]string, error) {
	if offset < 0 {
		offset = 0
	}
	stop := -1
	if limit > 0 {
		stop = offset + limit - 1
	}
	cmd := s.b().Zrange().Key(key).
		Min(strconv.Itoa(offset)).
		Max(strconv.Itoa(stop)).
		Rev().
		Build()
	members, err := s.do(ctx, cmd).AsStrSlice()
	if err != nil {
		return nil, &db.Error{Op: db.OpZRevRange, Err: err}
	}
	return members, nil
}

// ZScore returns the score of a member or db.ErrKeyNotFound.
func (s *Store) ZScore(ctx context.Context, key, member string) (float64, error) {
	cmd := s.b().Zscore().Key(key).Member(member).Build()
	score, err := s.do(ctx, cmd).AsFloat64()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, db.ErrKeyNotFound
		}
		return 0, &db.Error{Op: db.OpZScore, Err: err}
	}
	return score, nil
}
