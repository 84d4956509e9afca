package auth_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/infrastructure/auth"
)

func TestInMemoryTokenBlacklist_RevokeSingleToken(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "sesion-almacenista-1", time.Hour))

	revoked, err := blacklist.IsBlacklisted(ctx, "sesion-almacenista-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = blacklist.IsBlacklisted(ctx, "sesion-almacenista-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_ExpiredEntriesAreDropped(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	require.NoError(t, blacklist.AddToBlacklist(ctx, "sesion-corta", time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	revoked, err := blacklist.IsBlacklisted(ctx, "sesion-corta")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestInMemoryTokenBlacklist_UserCutoff(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	issuedEarlier := time.Now().Add(-time.Hour)

	invalidated, err := blacklist.IsUserTokenInvalidated(ctx, "user-supervisor", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, invalidated, "no cutoff recorded yet")

	require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, "user-supervisor", time.Hour))

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-supervisor", issuedEarlier)
	require.NoError(t, err)
	assert.True(t, invalidated, "tokens issued before the cutoff are rejected")

	issuedLater := time.Now().Add(time.Second)
	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-supervisor", issuedLater)
	require.NoError(t, err)
	assert.False(t, invalidated, "tokens issued after the cutoff stay valid")

	invalidated, err = blacklist.IsUserTokenInvalidated(ctx, "user-otro", issuedEarlier)
	require.NoError(t, err)
	assert.False(t, invalidated, "other users keep their sessions")
}

func TestInMemoryTokenBlacklist_ManyTokens(t *testing.T) {
	blacklist := auth.NewInMemoryTokenBlacklist()
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		require.NoError(t, blacklist.AddToBlacklist(ctx, fmt.Sprintf("sesion-%d", i), time.Hour))
	}
	for i := 0; i < 10; i++ {
		revoked, err := blacklist.IsBlacklisted(ctx, fmt.Sprintf("sesion-%d", i))
		require.NoError(t, err)
		assert.True(t, revoked, "sesion-%d should be revoked", i)
	}

	revoked, err := blacklist.IsBlacklisted(ctx, "sesion-activa")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestTokenBlacklist_Implementations(t *testing.T) {
	var _ auth.TokenBlacklist = (*auth.InMemoryTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = (*auth.RedisTokenBlacklist)(nil)
	var _ auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
}
