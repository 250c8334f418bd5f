// Package redis keeps browser session values in Redis hashes.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/redis/go-redis/v9"
)

var _ port.SessionStore = (*SessionStore)(nil)

const keyPrefix = "storefront:session:"

// NewClient parses url, connects and pings the server.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	const op = "redis.NewClient"

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid url: %w", op, err)
	}
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.DialTimeout = 5 * time.Second

	client := redis.NewClient(opts)
	err = adapter.WaitAvailable(ctx, "redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: server is unavailable: %w", op, err)
	}
	slog.Info("redis is available", "op", op, "addr", opts.Addr)
	return client, nil
}

// A SessionStore keeps one hash per session. Every write extends the
// session by ttl.
type SessionStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewSessionStore(rdb redis.Cmdable, ttl time.Duration) SessionStore {
	return SessionStore{rdb: rdb, ttl: ttl}
}

func (s SessionStore) Get(
	ctx context.Context, sessionID, key string,
) (string, bool, error) {
	const op = "redis.SessionStore.Get"

	v, err := s.rdb.HGet(ctx, sessionKey(sessionID), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%s: %w: %w", op, domain.ErrBackendUnavailable, err)
	}
	return v, true, nil
}

func (s SessionStore) Set(
	ctx context.Context, sessionID, key, value string,
) error {
	const op = "redis.SessionStore.Set"

	if sessionID == "" {
		return fmt.Errorf("%s: %w: empty session id", op, domain.ErrBackendUnavailable)
	}

	k := sessionKey(sessionID)
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, k, key, value)
		if s.ttl > 0 {
			pipe.Expire(ctx, k, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrBackendUnavailable, err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return keyPrefix + sessionID
}
