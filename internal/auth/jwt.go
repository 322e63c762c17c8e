package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ehsas/internal/clock"
)

// RoleAdmin is the only privileged role.
const RoleAdmin = "admin"

var (
	// ErrExpired indicates the token signature was valid but its lifetime has passed.
	ErrExpired = errors.New("token has expired")
	// ErrInvalid indicates a malformed, tampered or foreign token.
	ErrInvalid = errors.New("invalid token")
)

// Identity is what a session token asserts about its bearer.
type Identity struct {
	ID    string
	Email string
	Role  string
}

// Token is a signed session token and its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claims represents the JWT payload: {id, email, role, exp}.
type Claims struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Identity returns the asserted identity.
func (c Claims) Identity() Identity {
	return Identity{ID: c.ID, Email: c.Email, Role: c.Role}
}

// Issuer signs and verifies HS256 session tokens with a fixed lifetime.
type Issuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	clk    clock.Clock
}

// NewIssuer builds an issuer. A zero ttl falls back to 24h.
func NewIssuer(secret, issuer string, ttl time.Duration, clk clock.Clock) *Issuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &Issuer{key: []byte(secret), issuer: issuer, ttl: ttl, clk: clk}
}

// Issue signs a token for the identity.
func (i *Issuer) Issue(id Identity) (Token, error) {
	now := i.clk.Now()
	exp := now.Add(i.ttl)

	claims := Claims{
		ID:    id.ID,
		Email: id.Email,
		Role:  id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   id.ID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Value: signed, ExpiresAt: exp}, nil
}

// Parse validates a token and returns its claims.
func (i *Issuer) Parse(tokenStr string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.clk.Now),
		jwt.WithExpirationRequired(),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return i.key, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrInvalid
	}
	return *claims, nil
}
