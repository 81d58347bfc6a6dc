package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenAudience is the audience every mediator bearer token must carry.
const TokenAudience = "work-mediator"

const defaultTokenTTL = time.Hour

// TokenManager checks HS256 bearer tokens presented by calling services.
// GenerateToken exists for operators minting tokens for a backend.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	parser *jwt.Parser
}

// NewTokenManager builds a manager for secret. A non-positive ttlMinutes
// falls back to one hour.
func NewTokenManager(secret string, ttlMinutes int) *TokenManager {
	ttl := time.Duration(ttlMinutes) * time.Minute
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithAudience(TokenAudience),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

// Claims identifies the calling service.
type Claims struct {
	Service string `json:"svc,omitempty"`
	jwt.RegisteredClaims
}

// Caller prefers the svc claim and falls back to the subject.
func (c *Claims) Caller() string {
	if c.Service != "" {
		return c.Service
	}
	return c.Subject
}

// GenerateToken signs a token for service valid for the manager's TTL.
func (tm *TokenManager) GenerateToken(service string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Service: service,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   service,
			Audience:  jwt.ClaimStrings{TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}).SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ParseToken verifies signature, audience and expiry.
func (tm *TokenManager) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	if _, err := tm.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return tm.secret, nil
	}); err != nil {
		return nil, err
	}
	if claims.Caller() == "" {
		return nil, errors.New("token names no caller")
	}
	return claims, nil
}
