// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/superdwayne/brandgate/internal/platform/constants"
)

// RedisSessionStore implements SessionStore using Redis.
type RedisSessionStore struct {
	client *redis.Client
}

// NewRedisSessionStore creates a new Redis-backed SessionStore.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

// sessionKey builds the Redis key for a session scope.
func sessionKey(scope string) string {
	return constants.RedisPrefixSession + scope
}

/*
Save persists the serialized session under the scope key.

Description: The entry's TTL follows the access token's expiry so stale
sessions age out of Redis on their own; sessions without expiry metadata get
a fallback TTL instead of living forever.

Parameters:
  - ctx: context.Context
  - scope: string
  - session: *Session

Returns:
  - error: Serialization or storage failures
*/
func (store *RedisSessionStore) Save(ctx context.Context, scope string, session *Session) error {

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_encode_failed: %w", err)
	}

	// Expire alongside the access token, with a floor for clock skew.
	ttl := constants.SessionFallbackTTL
	if expiry := session.Expiry(); !expiry.IsZero() {
		if remaining := time.Until(expiry); remaining > time.Minute {
			ttl = remaining
		}
	}

	if err := store.client.Set(ctx, sessionKey(scope), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
Load retrieves the stored session for a scope.

Description: An absent or expired entry is not an error; the controller
treats (nil, nil) as "nothing to restore".

Parameters:
  - ctx: context.Context
  - scope: string

Returns:
  - *Session: Stored session, nil when the scope is empty
  - error: Connectivity or decode failures
*/
func (store *RedisSessionStore) Load(ctx context.Context, scope string) (*Session, error) {

	raw, err := store.client.Get(ctx, sessionKey(scope)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, fmt.Errorf("redis_session_decode_failed: %w", err)
	}

	return session, nil
}

/*
Delete removes the stored session for a scope.

Parameters:
  - ctx: context.Context
  - scope: string

Returns:
  - error: Deletion failures
*/
func (store *RedisSessionStore) Delete(ctx context.Context, scope string) error {

	if err := store.client.Del(ctx, sessionKey(scope)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	return nil
}
