package service

import (
	"testing"

	"havn/config"
	"havn/internal/auth"
	"havn/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := config.Load()
	cfg.JWT.AccessSecret = "test-access-secret"
	cfg.JWT.RefreshSecret = "test-refresh-secret"
	return cfg
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(testConfig(), env.users)

	u, access, refresh, err := svc.Register("Alice", "alice@example.com", "password123", "555-0100", "12 Orchard Rd")
	require.NoError(t, err)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
	assert.False(t, u.IsAnonymous)

	_, _, _, err = svc.Register("Alice Again", "alice@example.com", "password123", "", "")
	assert.ErrorIs(t, err, ErrEmailExists)

	logged, access, _, err := svc.Login("alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := auth.ParseAccessToken(&testConfig().JWT, access)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, claims.Role)

	_, _, _, err = svc.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestAnonymousSessionIsPasswordlessAndRoleScoped(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(testConfig(), env.users)

	u, access, _, err := svc.Anonymous()
	require.NoError(t, err)
	assert.True(t, u.IsAnonymous)
	assert.Empty(t, u.PasswordHash)

	claims, err := auth.ParseAccessToken(&testConfig().JWT, access)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAnonymous, claims.Role)

	// A guest account cannot be logged into with credentials.
	_, _, _, err = svc.Login(u.Email, "")
	assert.ErrorIs(t, err, ErrInvalidCreds)
}
