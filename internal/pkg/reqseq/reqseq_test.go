package reqseq

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequencers(t *testing.T) map[string]Sequencer {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return map[string]Sequencer{
		"redis":  NewRedisSequencer(client, time.Minute),
		"memory": NewMemorySequencer(0),
	}
}

func TestSequencer_IssuedTokensSupersede(t *testing.T) {
	for name, s := range sequencers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			scope := Scope("client-1", "baseline")

			first, err := s.Begin(ctx, scope, 0)
			require.NoError(t, err)
			second, err := s.Begin(ctx, scope, 0)
			require.NoError(t, err)
			assert.Greater(t, second, first)

			ok, err := s.Current(ctx, scope, first)
			require.NoError(t, err)
			assert.False(t, ok, "older request is stale")

			ok, err = s.Current(ctx, scope, second)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestSequencer_ClientTokens(t *testing.T) {
	for name, s := range sequencers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			scope := Scope("client-2", "followups")

			_, err := s.Begin(ctx, scope, 7)
			require.NoError(t, err)
			// A late arrival with an older number does not roll the scope back.
			_, err = s.Begin(ctx, scope, 5)
			require.NoError(t, err)

			ok, _ := s.Current(ctx, scope, 5)
			assert.False(t, ok)
			ok, _ = s.Current(ctx, scope, 7)
			assert.True(t, ok)
		})
	}
}

func TestSequencer_ScopesAreIndependent(t *testing.T) {
	for name, s := range sequencers(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			a, _ := s.Begin(ctx, Scope("a", "baseline"), 0)
			_, _ = s.Begin(ctx, Scope("b", "baseline"), 0)
			_, _ = s.Begin(ctx, Scope("a", "comparison"), 0)

			ok, err := s.Current(ctx, Scope("a", "baseline"), a)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestRedisSequencer_UnknownScopeIsCurrent(t *testing.T) {
	s := sequencers(t)["redis"]
	ok, err := s.Current(context.Background(), "nobody:baseline", 1)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemorySequencer_DropsIdleScopes(t *testing.T) {
	s := NewMemorySequencer(time.Minute)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for _, client := range []string{"a", "b", "c"} {
		_, err := s.Begin(ctx, Scope(client, "baseline"), 5)
		require.NoError(t, err)
	}
	assert.Equal(t, 3, s.Len())

	now = now.Add(2 * time.Minute)
	ok, err := s.Current(ctx, Scope("a", "baseline"), 1)
	require.NoError(t, err)
	assert.True(t, ok, "expired scope has no newer token")

	_, err = s.Begin(ctx, Scope("d", "baseline"), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}
