package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/flat-service/internal/domain"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 24*time.Hour)

	token, expiresAt, err := tm.GenerateToken("user-123", domain.RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
}

func TestTokenManager_InvalidTokensCollapseToOneError(t *testing.T) {
	tm := NewTokenManager("test-secret", 24*time.Hour)
	other := NewTokenManager("other-secret", 24*time.Hour)

	valid, _, err := tm.GenerateToken("user-123", domain.RoleUser)
	require.NoError(t, err)
	foreign, _, err := other.GenerateToken("user-123", domain.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"truncated", valid[:len(valid)-10]},
		{"wrong signing key", foreign},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := tm.ParseToken(tt.token)
			assert.Nil(t, claims)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestTokenManager_Expiry(t *testing.T) {
	tm := NewTokenManager("test-secret", 200*time.Millisecond)

	token, _, err := tm.GenerateToken("user-123", domain.RoleUser)
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	require.NoError(t, err, "token should verify before expiry")

	time.Sleep(300 * time.Millisecond)

	_, err = tm.ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "token should be rejected at or after expiry")
}
