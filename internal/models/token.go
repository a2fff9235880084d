package models

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RefreshToken is the stored form of an issued refresh token. Only a hash of
// the signed token is kept.
type RefreshToken struct {
	UserID      uuid.UUID
	HashedToken string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// NewRefreshToken builds the record for a signed refresh token. The token must
// carry an expiry.
func NewRefreshToken(userID uuid.UUID, token *jwt.Token) (RefreshToken, error) {
	exp, err := token.Claims.GetExpirationTime()
	if err != nil {
		return RefreshToken{}, fmt.Errorf("refresh token expiry: %w", err)
	}
	if exp == nil {
		return RefreshToken{}, fmt.Errorf("refresh token has no expiry")
	}
	return RefreshToken{
		UserID:      userID,
		HashedToken: HashToken(token.Raw),
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   exp.Time,
	}, nil
}

func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return base64.StdEncoding.EncodeToString(sum[:])
}

type TokenPair struct {
	AccessToken  *jwt.Token
	RefreshToken *jwt.Token
}
