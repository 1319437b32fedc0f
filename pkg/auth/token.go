package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// DefaultTokenTTL is the lifetime of an issued token
	DefaultTokenTTL = time.Hour

	// DefaultIssuer is written to the iss claim
	DefaultIssuer = "courserev"
)

// ErrInvalidToken is returned for malformed, tampered or expired tokens
var ErrInvalidToken = errors.New("invalid token")

// TokenManager issues and verifies HS256 bearer tokens.
// Tokens carry the user id as the subject and hold no server-side state.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

// NewTokenManager creates a TokenManager. Zero values for ttl and issuer
// select DefaultTokenTTL and DefaultIssuer.
func NewTokenManager(secret []byte, ttl time.Duration, issuer string) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &TokenManager{secret: secret, ttl: ttl, issuer: issuer, now: time.Now}
}

// TTL returns the lifetime of issued tokens
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a token for userID and returns it with its expiry
func (m *TokenManager) Issue(userID int64) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature, issuer and expiry of token and returns the
// user id it was issued for
func (m *TokenManager) Verify(token string) (int64, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("%w: bad subject %q", ErrInvalidToken, claims.Subject)
	}
	return userID, nil
}
