package service

import (
	"testing"
	"time"

	"github.com/6ReactTeamproject/nest-sub000/internal/config"
	"github.com/6ReactTeamproject/nest-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		RefreshTokenTTL:       7 * 24 * time.Hour,
	}
}

func TestUserService_Register(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb, testConfig())

	result, err := svc.Register("alice", "pass1234", "Alice")
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "alice", result.User.LoginID)
	assert.Equal(t, "Alice", result.User.Name)
	assert.Equal(t, DefaultAvatarURL, result.User.AvatarURL)
}

func TestUserService_Register_Conflict(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb, testConfig())

	_, err := svc.Register("alice", "pass1234", "Alice")
	require.NoError(t, err)

	_, err = svc.Register("alice", "other", "Clone")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUserService_Login(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb, testConfig())
	_, err := svc.Register("alice", "pass1234", "Alice")
	require.NoError(t, err)

	result, err := svc.Login("alice", "pass1234")
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)

	_, err = svc.Login("alice", "wrong")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Login("nobody", "pass1234")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_Login_ReplacesRefreshToken(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb, testConfig())
	first, err := svc.Register("alice", "pass1234", "Alice")
	require.NoError(t, err)

	second, err := svc.Login("alice", "pass1234")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	var count int64
	gdb.Model(&models.RefreshToken{}).Count(&count)
	assert.EqualValues(t, 1, count, "one active refresh token per user")

	// The replaced token no longer refreshes.
	_, err = svc.Refresh(first.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_Refresh(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb, testConfig())
	reg, err := svc.Register("alice", "pass1234", "Alice")
	require.NoError(t, err)

	result, err := svc.Refresh(reg.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)

	// Refresh does not rotate the refresh token; the same one keeps working.
	_, err = svc.Refresh(reg.RefreshToken)
	assert.NoError(t, err)
}

func TestUserService_Refresh_ExpiredDeletesRow(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb, testConfig())
	user := seedUser(t, gdb, "alice", "Alice")
	rt := models.RefreshToken{UserID: user.ID, Token: "stale-token", ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, gdb.Create(&rt).Error)

	_, err := svc.Refresh("stale-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "expired")

	var count int64
	gdb.Model(&models.RefreshToken{}).Where("token = ?", "stale-token").Count(&count)
	assert.EqualValues(t, 0, count, "expired row removed as a side effect")

	// The retry reports not-found rather than expired.
	_, err = svc.Refresh("stale-token")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "not found")
}

func TestUserService_Logout_Idempotent(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb, testConfig())
	reg, err := svc.Register("alice", "pass1234", "Alice")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(reg.RefreshToken))
	require.NoError(t, svc.Logout(reg.RefreshToken))

	_, err = svc.Refresh(reg.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestUserService_CheckLoginID(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb, testConfig())
	seedUser(t, gdb, "alice", "Alice")

	available, err := svc.CheckLoginID("alice")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = svc.CheckLoginID("bob")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestUserService_Update_OwnerOnly(t *testing.T) {
	gdb := newTestDB(t)
	svc := NewUserService(gdb, testConfig())
	alice := seedUser(t, gdb, "alice", "Alice")
	bob := seedUser(t, gdb, "bob", "Bob")

	newName := "Alice Kim"
	_, err := svc.Update(alice.ID, UserUpdate{Name: &newName}, bob.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := svc.Update(alice.ID, UserUpdate{Name: &newName}, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Kim", updated.Name)
}
