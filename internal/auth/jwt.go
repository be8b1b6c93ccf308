package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a bearer token cannot be verified.
var ErrInvalidToken = errors.New("invalid token")

// Claims carries the authenticated identity inside a signed token.
type Claims struct {
	OrgID uuid.UUID `json:"orgId"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HMAC-signed bearer tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a token manager with the given signing secret and lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user under the tenant scope.
func (m *TokenManager) Issue(userID, orgID uuid.UUID) (string, error) {
	now := time.Now()
	claims := Claims{
		OrgID: orgID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a bearer token and returns the user and tenant it carries.
func (m *TokenManager) Verify(tokenString string) (userID, orgID uuid.UUID, err error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, uuid.Nil, ErrInvalidToken
	}
	userID, err = uuid.Parse(claims.Subject)
	if err != nil || claims.OrgID == uuid.Nil {
		return uuid.Nil, uuid.Nil, ErrInvalidToken
	}
	return userID, claims.OrgID, nil
}
