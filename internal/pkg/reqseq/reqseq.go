// Package reqseq orders concurrent requests from one client so a slow,
// superseded response can be recognised and discarded.
//
// A request takes a token with Begin and checks it with Current before its
// response is written. Tokens are per scope (client id plus view) and only
// grow; a request whose token is no longer the scope's latest is stale.
package reqseq

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long an idle scope's counter is kept.
const DefaultTTL = time.Hour

// Sequencer issues and checks request tokens.
type Sequencer interface {
	// Begin registers a request. A positive token is the client's own
	// sequence number and is recorded if it is the newest seen; otherwise a
	// new token is issued. It returns the request's token.
	Begin(ctx context.Context, scope string, token int64) (int64, error)

	// Current reports whether token is still the newest for scope.
	Current(ctx context.Context, scope string, token int64) (bool, error)
}

// Scope joins a client id and a view name.
func Scope(clientID, view string) string {
	return clientID + ":" + view
}

// observeScript records ARGV[1] when it is greater than the stored value and
// returns the stored value after the update.
var observeScript = redis.NewScript(`
	local cur = tonumber(redis.call("get", KEYS[1]) or "0")
	local tok = tonumber(ARGV[1])
	if tok > cur then
		redis.call("set", KEYS[1], tok, "PX", ARGV[2])
		return tok
	end
	redis.call("pexpire", KEYS[1], ARGV[2])
	return cur
`)

// RedisSequencer shares tokens across server processes.
type RedisSequencer struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSequencer creates a sequencer; ttl <= 0 uses DefaultTTL.
func NewRedisSequencer(client *redis.Client, ttl time.Duration) *RedisSequencer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisSequencer{client: client, ttl: ttl}
}

func (s *RedisSequencer) key(scope string) string {
	return "survey:reqseq:" + scope
}

func (s *RedisSequencer) Begin(ctx context.Context, scope string, token int64) (int64, error) {
	key := s.key(scope)
	if token <= 0 {
		pipe := s.client.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.PExpire(ctx, key, s.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return 0, fmt.Errorf("issue request token: %w", err)
		}
		return incr.Val(), nil
	}
	if err := observeScript.Run(ctx, s.client, []string{key}, token, s.ttl.Milliseconds()).Err(); err != nil {
		return 0, fmt.Errorf("record request token: %w", err)
	}
	return token, nil
}

func (s *RedisSequencer) Current(ctx context.Context, scope string, token int64) (bool, error) {
	latest, err := s.client.Get(ctx, s.key(scope)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check request token: %w", err)
	}
	return token >= latest, nil
}

// MemorySequencer is the single-process fallback. Scopes idle for longer
// than the TTL are dropped.
type MemorySequencer struct {
	mu        sync.Mutex
	ttl       time.Duration
	scopes    map[string]memoryScope
	nextSweep time.Time
	now       func() time.Time
}

type memoryScope struct {
	latest int64
	seen   time.Time
}

// NewMemorySequencer returns an empty sequencer; ttl <= 0 uses DefaultTTL.
func NewMemorySequencer(ttl time.Duration) *MemorySequencer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemorySequencer{ttl: ttl, scopes: make(map[string]memoryScope), now: time.Now}
}

func (s *MemorySequencer) Begin(_ context.Context, scope string, token int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)

	sc := s.live(scope, now)
	if token <= 0 {
		sc.latest++
		token = sc.latest
	} else if token > sc.latest {
		sc.latest = token
	}
	sc.seen = now
	s.scopes[scope] = sc
	return token, nil
}

func (s *MemorySequencer) Current(_ context.Context, scope string, token int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return token >= s.live(scope, s.now()).latest, nil
}

// live returns the scope's state, or the zero state once it has expired.
func (s *MemorySequencer) live(scope string, now time.Time) memoryScope {
	sc, ok := s.scopes[scope]
	if !ok || now.Sub(sc.seen) > s.ttl {
		return memoryScope{}
	}
	return sc
}

// sweep drops expired scopes, at most once per TTL.
func (s *MemorySequencer) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for k, sc := range s.scopes {
		if now.Sub(sc.seen) > s.ttl {
			delete(s.scopes, k)
		}
	}
	s.nextSweep = now.Add(s.ttl)
}

// Len is the number of scopes held.
func (s *MemorySequencer) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scopes)
}
