package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/khata-erp/khata-erp/internal/shared"
)

// TokenStore keeps live bearer tokens in redis with a sliding TTL.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore builds the redis-backed token store.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue mints a new token for the user.
func (s *TokenStore) Issue(ctx context.Context, userID int64) (string, time.Time, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)
	expiresAt := time.Now().Add(s.ttl)
	if err := s.client.Set(ctx, s.key(token), userID, s.ttl).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("store token: %w", err)
	}
	return token, expiresAt, nil
}

// Validate resolves a token to its user id, refreshing the TTL.
func (s *TokenStore) Validate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, shared.ErrUnauthorized
	}
	val, err := s.client.Get(ctx, s.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, shared.ErrUnauthorized
	}
	if err != nil {
		return 0, fmt.Errorf("lookup token: %w", err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, shared.ErrUnauthorized
	}
	_ = s.client.Expire(ctx, s.key(token), s.ttl).Err()
	return userID, nil
}

// Revoke drops the token.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

func (s *TokenStore) key(token string) string {
	return "auth:token:" + token
}
