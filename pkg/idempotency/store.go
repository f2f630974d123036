package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pending = "pending"

// ErrInFlight means another request holding the same key has not finished.
var ErrInFlight = errors.New("request with this idempotency key is in progress")

// Result is a stored response replayed for repeated keys.
type Result struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) Key(scope string, userID uint, key string) string {
	return fmt.Sprintf("idem:%s:%d:%s", scope, userID, key)
}

// Reserve claims key. It returns the stored result when the key already
// completed, ErrInFlight when it is still pending, and (nil, nil) when the
// caller now owns the key.
func (s *Store) Reserve(ctx context.Context, key string) (*Result, error) {
	ok, err := s.rdb.SetNX(ctx, key, pending, s.ttl).Result()
	if err != nil {
		return nil, err
	}
	if ok {
		return nil, nil
	}

	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		// expired between SetNX and Get; try once more
		return s.Reserve(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	if val == pending {
		return nil, ErrInFlight
	}

	var res Result
	if err := json.Unmarshal([]byte(val), &res); err != nil {
		return nil, fmt.Errorf("decode stored result: %w", err)
	}
	return &res, nil
}

func (s *Store) Complete(ctx context.Context, key string, res Result) error {
	b, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, b, s.ttl).Err()
}

// Release drops a reservation so the client can retry with the same key.
func (s *Store) Release(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
