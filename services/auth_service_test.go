package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/foodgram-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthService(nil, "test-secret", time.Hour)
	userID := uuid.New()

	token, err := auth.issueToken(userID)
	require.NoError(t, err)

	parsed, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, parsed)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(nil, "secret-one", time.Hour)
	verifier := NewAuthService(nil, "secret-two", time.Hour)

	token, err := issuer.issueToken(uuid.New())
	require.NoError(t, err)

	_, err = verifier.VerifyToken(token)
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	auth := NewAuthService(nil, "test-secret", -time.Minute)

	token, err := auth.issueToken(uuid.New())
	require.NoError(t, err)

	_, err = auth.VerifyToken(token)
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	auth := NewAuthService(nil, "test-secret", time.Hour)

	_, err := auth.VerifyToken("not-a-token")
	require.Error(t, err)
	assert.True(t, errs.IsUnauthorized(err))
}
