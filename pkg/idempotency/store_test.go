package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewStore(rdb, time.Minute), mr
}

func TestReserveCompleteReplay(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	key := s.Key("checkout", 7, "abc")

	res, err := s.Reserve(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, res)

	_, err = s.Reserve(ctx, key)
	assert.ErrorIs(t, err, ErrInFlight)

	require.NoError(t, s.Complete(ctx, key, Result{Status: 201, Body: []byte(`{"ok":true}`)}))

	res, err = s.Reserve(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 201, res.Status)
	assert.JSONEq(t, `{"ok":true}`, string(res.Body))
}

func TestReleaseAllowsRetry(t *testing.T) {
	s, _ := newStore(t)
	ctx := context.Background()
	key := s.Key("checkout", 7, "retry")

	_, err := s.Reserve(ctx, key)
	require.NoError(t, err)
	require.NoError(t, s.Release(ctx, key))

	res, err := s.Reserve(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestKeysAreScopedPerUser(t *testing.T) {
	s, _ := newStore(t)
	assert.NotEqual(t, s.Key("checkout", 1, "k"), s.Key("checkout", 2, "k"))
}

func TestReservationExpires(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()
	key := s.Key("checkout", 1, "ttl")

	_, err := s.Reserve(ctx, key)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	res, err := s.Reserve(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, res)
}
