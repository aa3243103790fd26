package jwt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	mgr := NewManager("test-secret", 15, 72)

	token, err := mgr.GenerateAccessToken("user-1", "alice@example.com", "admin")
	require.NoError(t, err)

	claims, err := mgr.ValidateAccessToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID)
	require.Equal(t, "alice@example.com", claims.Email)
	require.Equal(t, "admin", claims.Role)
	require.Equal(t, "access", claims.Type)
	require.NotEmpty(t, claims.ID, "jti is required for the logout denylist")
}

func TestTokenTypeEnforcement(t *testing.T) {
	mgr := NewManager("test-secret", 15, 72)

	access, err := mgr.GenerateAccessToken("user-1", "alice@example.com", "user")
	require.NoError(t, err)
	refresh, err := mgr.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	_, err = mgr.ValidateRefreshToken(access)
	require.Error(t, err, "access token must not pass as refresh")

	_, err = mgr.ValidateAccessToken(refresh)
	require.Error(t, err, "refresh token must not pass as access")
}

func TestWrongSecretRejected(t *testing.T) {
	token, err := NewManager("secret-a", 15, 72).GenerateAccessToken("user-1", "a@b.c", "user")
	require.NoError(t, err)

	_, err = NewManager("secret-b", 15, 72).ValidateToken(token)
	require.Error(t, err)
}
