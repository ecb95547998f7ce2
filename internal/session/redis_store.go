package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"auction-console/internal/auctionerrors"
	"auction-console/internal/models"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "auction:session:"

// RedisStore keeps credentials in Redis with a TTL per session
type RedisStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisStore wraps a redis client
func NewRedisStore(client redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// Get returns the credential stored for sessionID
func (s *RedisStore) Get(ctx context.Context, sessionID string) (models.Credential, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Credential{}, auctionerrors.ErrNoCredential
	}
	if err != nil {
		return models.Credential{}, fmt.Errorf("redis store: get %s: %w", sessionID, err)
	}
	var cred models.Credential
	if err := json.Unmarshal(raw, &cred); err != nil {
		// corrupt entry, drop it and treat the session as anonymous
		_ = s.client.Del(ctx, s.key(sessionID)).Err()
		return models.Credential{}, auctionerrors.ErrNoCredential
	}
	return cred, nil
}

// Put stores cred for sessionID
func (s *RedisStore) Put(ctx context.Context, sessionID string, cred models.Credential) error {
	body, err := json.Marshal(cred)
	if err != nil {
		return fmt.Errorf("redis store: encode: %w", err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), body, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis store: put %s: %w", sessionID, err)
	}
	return nil
}

// Delete removes the credential for sessionID
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis store: delete %s: %w", sessionID, err)
	}
	return nil
}
