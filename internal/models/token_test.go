package models

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefreshToken(t *testing.T) {
	userID := uuid.New()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := &jwt.Token{
		Raw:    "header.payload.signature",
		Claims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	}

	rt, err := NewRefreshToken(userID, token)
	require.NoError(t, err)
	assert.Equal(t, userID, rt.UserID)
	assert.True(t, exp.Equal(rt.ExpiresAt))
	assert.Equal(t, HashToken(token.Raw), rt.HashedToken)
	assert.NotEqual(t, token.Raw, rt.HashedToken)
}

func TestNewRefreshTokenRequiresExpiry(t *testing.T) {
	_, err := NewRefreshToken(uuid.New(), &jwt.Token{Raw: "x", Claims: jwt.RegisteredClaims{}})
	assert.Error(t, err)
}

func TestKnownRole(t *testing.T) {
	assert.True(t, KnownRole(ClientRole))
	assert.True(t, KnownRole(AdminRole))
	assert.False(t, KnownRole("author"))
}
