package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPattern = "medbot:session:%s"

// RedisStore keeps each transcript in a capped Redis list that expires with
// the session.
type RedisStore struct {
	client   *redis.Client
	maxTurns int
	ttl      time.Duration
}

func NewRedisStore(client *redis.Client, maxTurns int, ttl time.Duration) *RedisStore {
	if maxTurns <= 0 {
		maxTurns = DefaultMaxTurns
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{
		client:   client,
		maxTurns: maxTurns,
		ttl:      ttl,
	}
}

func (s *RedisStore) Append(ctx context.Context, id string, turn Turn) error {
	key := fmt.Sprintf(keyPattern, id)

	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}

	if err := s.client.RPush(ctx, key, string(data)).Err(); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	if err := s.client.LTrim(ctx, key, int64(-s.maxTurns), -1).Err(); err != nil {
		return fmt.Errorf("failed to trim session %s: %w", id, err)
	}
	if err := s.client.Expire(ctx, key, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to refresh session %s: %w", id, err)
	}

	return nil
}

func (s *RedisStore) History(ctx context.Context, id string) ([]Turn, error) {
	raw, err := s.client.LRange(ctx, fmt.Sprintf(keyPattern, id), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", id, err)
	}

	turns := make([]Turn, 0, len(raw))
	for i, r := range raw {
		var t Turn
		if err := json.Unmarshal([]byte(r), &t); err != nil {
			return nil, fmt.Errorf("failed to decode turn %d of session %s: %w", i, id, err)
		}
		turns = append(turns, t)
	}

	return turns, nil
}
