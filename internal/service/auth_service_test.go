package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anamnesis/internal/config"
)

func testAuthService() *AuthService {
	return NewAuthService(&config.Config{
		StaffUsername: "admin",
		StaffPassword: "secret",
		JWTSecret:     "test-secret",
		SessionTTL:    time.Hour,
	})
}

func TestLoginAndValidateStaffToken(t *testing.T) {
	svc := testAuthService()

	resp, err := svc.Login("admin", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateStaffToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.StaffID, claims.StaffID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := testAuthService()

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSessionTokenRoundTrip(t *testing.T) {
	svc := testAuthService()

	token, err := svc.GenerateSessionToken("s_abc123", "form-1")
	require.NoError(t, err)

	claims, err := svc.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "s_abc123", claims.SessionID)
	assert.Equal(t, "form-1", claims.FormID)
}

func TestTokensAreNotInterchangeableAcrossSecrets(t *testing.T) {
	svc := testAuthService()
	other := NewAuthService(&config.Config{
		StaffUsername: "admin",
		StaffPassword: "secret",
		JWTSecret:     "different-secret",
		SessionTTL:    time.Hour,
	})

	token, err := svc.GenerateSessionToken("s_abc123", "form-1")
	require.NoError(t, err)

	_, err = other.ValidateSessionToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateSessionToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
