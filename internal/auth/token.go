package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	DefaultTTL  = 24 * time.Hour
	tokenIssuer = "studiosite"
)

type Role string

const RoleAdmin Role = "admin"

type Identity struct {
	Username string
	Role     Role
}

// Claims carried by the admin session token. Subject holds the admin username.
type Claims struct {
	SessionID string `json:"sid"`
	Role      Role   `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) Username() string {
	return c.Subject
}

// ExpiresIn is the remaining validity of the token at the given moment.
func (c *Claims) ExpiresIn(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// TokenIssuer mints and verifies HS256 signed session tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration

	// injectable for tests
	now          func() time.Time
	newSessionID func() string
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenIssuer{
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
		newSessionID: uuid.NewString,
	}
}

func (ti *TokenIssuer) TTL() time.Duration {
	return ti.ttl
}

func (ti *TokenIssuer) Configured() bool {
	return len(ti.secret) > 0
}

func (ti *TokenIssuer) Issue(identity Identity) (string, *Claims, error) {
	if !ti.Configured() {
		return "", nil, fmt.Errorf("issue token: %w", ErrConfiguration)
	}
	if identity.Username == "" {
		return "", nil, errors.New("issue token: empty subject")
	}
	if identity.Role == "" {
		identity.Role = RoleAdmin
	}

	now := ti.now()
	claims := &Claims{
		SessionID: ti.newSessionID(),
		Role:      identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   identity.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return signed, claims, nil
}

// Verify parses the token and checks signature, algorithm and expiry.
// No clock leeway: a token is rejected from its exp second on.
// Every failure is reported as ErrInvalidToken.
func (ti *TokenIssuer) Verify(token string) (*Claims, error) {
	if !ti.Configured() {
		return nil, fmt.Errorf("verify token: %w", ErrConfiguration)
	}
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidToken)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(_ *jwt.Token) (any, error) {
			return ti.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	if claims.Subject == "" || claims.Role != RoleAdmin {
		return nil, fmt.Errorf("%w: unexpected subject or role", ErrInvalidToken)
	}

	return claims, nil
}
