package jwtauth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "steward/pkg/domain-errors"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-signing-key", "steward")

	token, err := svc.GenerateToken("ranger", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ranger", claims.Identity)
	assert.Equal(t, "steward", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestExpiredTokenRejected(t *testing.T) {
	svc := NewService("test-signing-key", "steward")

	token, err := svc.GenerateToken("ranger", -time.Minute)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func TestWrongKeyRejected(t *testing.T) {
	minting := NewService("key-one", "steward")
	validating := NewService("key-two", "steward")

	token, err := minting.GenerateToken("ranger", time.Hour)
	require.NoError(t, err)

	_, err = validating.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestGarbageTokenRejected(t *testing.T) {
	svc := NewService("test-signing-key", "steward")

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestEmptyIdentityRejected(t *testing.T) {
	svc := NewService("test-signing-key", "steward")

	token, err := svc.GenerateToken("", time.Hour)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
