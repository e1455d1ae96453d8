package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/dkeye/CodeRoom/internal/domain"
)

type RedisConfig struct {
	Redis  redis.UniversalClient
	Prefix string
}

// RedisStore keeps problems in a hash and scores in sorted sets.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
}

func NewRedisStore(c RedisConfig) *RedisStore {
	prefix := c.Prefix
	if prefix == "" {
		prefix = "coderoom"
	}
	return &RedisStore{redis: c.Redis, prefix: prefix}
}

func (s *RedisStore) PutProblem(ctx context.Context, name string, q domain.Question) error {
	if err := validateProblem(name, q); err != nil {
		return err
	}
	b, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal problem: %w", err)
	}
	if err := s.redis.HSet(ctx, s.problemsKey(), name, b).Err(); err != nil {
		return fmt.Errorf("put problem: name=%s: %w", name, err)
	}
	log.Info().Str("module", "store").Str("problem", name).Msg("problem saved")
	return nil
}

func (s *RedisStore) GetProblem(ctx context.Context, name string) (domain.Question, error) {
	var q domain.Question
	b, err := s.redis.HGet(ctx, s.problemsKey(), name).Bytes()
	if errors.Is(err, redis.Nil) {
		return q, ErrProblemNotFound
	}
	if err != nil {
		return q, fmt.Errorf("get problem: name=%s: %w", name, err)
	}
	if err := json.Unmarshal(b, &q); err != nil {
		return q, fmt.Errorf("decode problem: name=%s: %w", name, err)
	}
	return q, nil
}

func (s *RedisStore) ListProblems(ctx context.Context) ([]string, error) {
	names, err := s.redis.HKeys(ctx, s.problemsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}
	slices.Sort(names)
	return names, nil
}

// RecordAward bumps both the global and the per-room tally.
func (s *RedisStore) RecordAward(ctx context.Context, room domain.RoomName, username string, points int) error {
	pipe := s.redis.TxPipeline()
	pipe.ZIncrBy(ctx, s.scoresKey(), float64(points), username)
	pipe.ZIncrBy(ctx, s.roomScoresKey(room), float64(points), username)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record award: room=%s user=%s: %w", room, username, err)
	}
	return nil
}

func (s *RedisStore) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	res, err := s.redis.ZRevRangeWithScores(ctx, s.scoresKey(), 0, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("get top scores: %w", err)
	}
	entries := lo.Map(res, func(z redis.Z, _ int) domain.LeaderboardEntry {
		return domain.LeaderboardEntry{Username: z.Member.(string), Score: int(z.Score)}
	})
	// Redis breaks ties in reverse lexical order; rooms show them ascending.
	slices.SortStableFunc(entries, domain.CompareEntries)
	return entries, nil
}

func (s *RedisStore) problemsKey() string { return fmt.Sprintf("%s:problems", s.prefix) }

func (s *RedisStore) scoresKey() string { return fmt.Sprintf("%s:scores", s.prefix) }

func (s *RedisStore) roomScoresKey(room domain.RoomName) string {
	return fmt.Sprintf("%s:room:%s:scores", s.prefix, room)
}
