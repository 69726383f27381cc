package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions in Redis as JSON values with a key TTL. Expiry
// is handled server side, so Get never returns ErrExpired and Cleanup is a
// no-op. Use it when several server instances must share sessions.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, prefix: "fpdviz:session:"}, nil
}

func (st *RedisStore) key(id string) string {
	return st.prefix + id
}

// Get implements [Store]. The key TTL is renewed on every read.
func (st *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := st.client.Get(ctx, st.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}

	s.Touch(time.Now(), st.ttl)
	if err := st.Set(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Set implements [Store].
func (st *RedisStore) Set(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := st.client.Set(ctx, st.key(s.ID), data, st.ttl).Err(); err != nil {
		return fmt.Errorf("set session: %w", err)
	}
	return nil
}

// Delete implements [Store].
func (st *RedisStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := st.client.Del(ctx, st.key(id)).Result()
	if err != nil {
		return false, fmt.Errorf("delete session: %w", err)
	}
	return n > 0, nil
}

// Cleanup implements [Store]. Redis expires keys itself.
func (st *RedisStore) Cleanup(context.Context) error { return nil }

// Close implements [Store].
func (st *RedisStore) Close() error {
	return st.client.Close()
}
