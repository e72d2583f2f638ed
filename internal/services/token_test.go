package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/priyansh-garg1/Social-Media-Clone-Backend/pkg/errors"
)

func signToken(t *testing.T, secret, userID string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestParseAccessToken(t *testing.T) {
	verifier := NewTokenVerifier("secret")
	userID := uuid.New().String()

	claims, err := verifier.ParseAccessToken(signToken(t, "secret", userID, time.Now().Add(time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
}

func TestParseAccessTokenRejections(t *testing.T) {
	verifier := NewTokenVerifier("secret")
	userID := uuid.New().String()

	cases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", signToken(t, "other-secret", userID, time.Now().Add(time.Hour))},
		{"expired", signToken(t, "secret", userID, time.Now().Add(-time.Minute))},
		{"missing user id", signToken(t, "secret", "", time.Now().Add(time.Hour))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := verifier.ParseAccessToken(tc.token)
			assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		})
	}
}
