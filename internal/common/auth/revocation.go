package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "token:revoked:"

// RevocationStore remembers logged-out token IDs until they expire.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisRevocationStore struct {
	client *redis.Client
}

func NewRedisRevocationStore(client *redis.Client) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

// Revoke is a no-op for tokens that have already expired.
func (s *RedisRevocationStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := s.client.Get(ctx, revokedKeyPrefix+jti).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
}

// NoopRevocationStore is used when Redis is not configured; logout then
// only succeeds client-side.
type NoopRevocationStore struct{}

func (NoopRevocationStore) Revoke(context.Context, string, time.Duration) error { return nil }

func (NoopRevocationStore) IsRevoked(context.Context, string) (bool, error) { return false, nil }
