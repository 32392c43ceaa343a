// Package token issues and verifies the signed access/refresh token pair.
// Tokens are self-contained HMAC-SHA256 JWTs and are never persisted or
// revoked; the "type" claim keeps a leaked refresh token from being replayed
// as an access token and vice versa.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

// ErrInvalidToken is the single failure signal for verification. Callers
// cannot distinguish a forged signature from an expired or mistyped token.
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

type Service struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewService(secret string, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *Service) IssueAccess(userID uuid.UUID) (string, error) {
	return s.issue(userID, TypeAccess, s.accessTTL)
}

func (s *Service) IssueRefresh(userID uuid.UUID) (string, error) {
	return s.issue(userID, TypeRefresh, s.refreshTTL)
}

func (s *Service) IssuePair(userID uuid.UUID) (string, string, error) {
	access, err := s.IssueAccess(userID)
	if err != nil {
		return "", "", err
	}

	refresh, err := s.IssueRefresh(userID)
	if err != nil {
		return "", "", err
	}

	return access, refresh, nil
}

func (s *Service) issue(userID uuid.UUID, typ Type, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := Claims{
		TokenType: string(typ),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("error signing %s token: %w", typ, err)
	}

	return signed, nil
}

// Verify checks the signature, expiry and type claim, then parses the subject
// back into a user id. A non-parseable subject is an invalid token, not a
// crash.
func (s *Service) Verify(tokenString string, expected Type) (uuid.UUID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || claims.TokenType != string(expected) {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}
