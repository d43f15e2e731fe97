package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_RoundTrip(t *testing.T) {
	tokens, err := NewTokens("s3cret")
	require.NoError(t, err)

	signed, err := tokens.Issue("user-42", time.Hour)
	require.NoError(t, err)

	userID, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestTokens_Rejects(t *testing.T) {
	tokens, err := NewTokens("s3cret")
	require.NoError(t, err)
	other, err := NewTokens("different")
	require.NoError(t, err)

	foreign, err := other.Issue("user-42", time.Hour)
	require.NoError(t, err)
	_, err = tokens.Verify(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := tokens.Issue("user-42", -time.Minute)
	require.NoError(t, err)
	_, err = tokens.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Issuer: issuer, Subject: "user-42"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Verify(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Verify("")
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestNewTokens_RequiresSecret(t *testing.T) {
	_, err := NewTokens("")
	assert.ErrorIs(t, err, ErrNoSecret)
}
