package auth

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/animation-service/internal/domain"
)

var (
	// ErrSigningKeyMissing is fatal at startup.
	ErrSigningKeyMissing = errors.New("token signing secret is empty")
	ErrMalformedToken    = errors.New("malformed token")
	ErrInvalidSignature  = errors.New("invalid token signature")
	ErrExpiredToken      = errors.New("token expired")
)

const defaultTokenTTL = time.Hour

// TokenManager issues and validates HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// TokenOption customizes a TokenManager.
type TokenOption func(*TokenManager)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TokenOption {
	return func(tm *TokenManager) {
		if now != nil {
			tm.now = now
		}
	}
}

// NewTokenManager builds a new manager. An empty secret is rejected.
func NewTokenManager(secret string, ttl time.Duration, opts ...TokenOption) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrSigningKeyMissing
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	tm := &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(tm)
	}
	tm.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(tm.now),
	)
	return tm, nil
}

// TTL reports the lifetime given to issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Claims describes the token payload.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Issue signs a token for identity. The output only varies with the clock.
func (tm *TokenManager) Issue(identity domain.Identity) (string, time.Time, error) {
	now := tm.now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Role: identity.Attribute(domain.AttrRole),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Validate verifies the signature, then expiry, and only then reads claims.
func (tm *TokenManager) Validate(tokenStr string) (domain.Identity, error) {
	claims := &Claims{}
	parsed, err := tm.parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return tm.secret, nil
	})
	if err != nil {
		return domain.Identity{}, classifyTokenError(tokenStr, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return domain.Identity{}, ErrMalformedToken
	}

	attrs := map[string]string{domain.AttrUsername: claims.Subject}
	if claims.Role != "" {
		attrs[domain.AttrRole] = claims.Role
	}
	return domain.NewIdentity(claims.Subject, attrs), nil
}

func classifyTokenError(tokenStr string, err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenMalformed):
		// A readable header and payload with an undecodable signature is a
		// tampered signature, not garbage.
		if headerAndPayloadIntact(tokenStr) {
			return ErrInvalidSignature
		}
		return ErrMalformedToken
	default:
		return ErrMalformedToken
	}
}

func headerAndPayloadIntact(tokenStr string) bool {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 || parts[2] == "" {
		return false
	}
	for _, part := range parts[:2] {
		if _, err := base64.RawURLEncoding.Strict().DecodeString(part); err != nil {
			return false
		}
	}
	return true
}
