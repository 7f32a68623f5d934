// Package auth issues and verifies access tokens and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"hiring-platform/internal/common/config"
	"hiring-platform/internal/models"
)

var (
	ErrInvalidToken = errors.New("INVALID_TOKEN")
	ErrTokenRevoked = errors.New("TOKEN_REVOKED")
)

// Claims carries the subject email and role of an access token.
type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Remaining is the lifetime left before the token expires.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

type TokenManager struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(cfg config.AuthConfig) (*TokenManager, error) {
	method := jwt.GetSigningMethod(cfg.Algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", cfg.Algorithm)
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}
	ttl := time.Duration(cfg.AccessTokenExpireMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &TokenManager{
		secret: []byte(cfg.SecretKey),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for email with a fresh jti.
func (m *TokenManager) Issue(email string, role models.Role) (string, error) {
	now := m.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies signature, algorithm and expiry.
func (m *TokenManager) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}
