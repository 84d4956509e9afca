package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOperator(t *testing.T) *User {
	t.Helper()
	u, err := NewActiveUser("almacenista", "Bodega2024")
	require.NoError(t, err)
	u.ClearDomainEvents()
	return u
}

func TestNewUser(t *testing.T) {
	t.Run("starts pending with the operator role", func(t *testing.T) {
		u, err := NewUser("almacenista", "Bodega2024")

		require.NoError(t, err)
		assert.Equal(t, "almacenista", u.Username)
		assert.Equal(t, RoleOperator, u.Role)
		assert.Equal(t, UserStatusPending, u.Status)
		assert.NotEmpty(t, u.PasswordHash)
		assert.NotNil(t, u.PasswordChangedAt)

		events := u.GetDomainEvents()
		require.Len(t, events, 1)
		created, ok := events[0].(*UserCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, "almacenista", created.Username)
	})

	t.Run("lowercases and trims the username", func(t *testing.T) {
		u, err := NewUser("  Almacenista.Turno2  ", "Bodega2024")

		require.NoError(t, err)
		assert.Equal(t, "almacenista.turno2", u.Username)
	})

	t.Run("rejects bad usernames", func(t *testing.T) {
		tests := []struct {
			name     string
			username string
			wantErr  string
		}{
			{"empty", "", "cannot be empty"},
			{"too short", "ab", "at least 3 characters"},
			{"illegal characters", "turno 2 bodega", "only contain letters"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewUser(tt.username, "Bodega2024")
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			})
		}
	})

	t.Run("rejects weak passwords", func(t *testing.T) {
		tests := []struct {
			name     string
			password string
			wantErr  string
		}{
			{"empty", "", "cannot be empty"},
			{"too short", "Bod1", "at least 8 characters"},
			{"digits only", "20240830", "at least one letter"},
			{"letters only", "bodegacentral", "one letter and one number"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewUser("almacenista", tt.password)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			})
		}
	})
}

func TestNewActiveUser(t *testing.T) {
	u, err := NewActiveUser("supervisor", "Bodega2024")

	require.NoError(t, err)
	assert.Equal(t, UserStatusActive, u.Status)
	assert.True(t, u.CanLogin())
}

func TestUserProfileSetters(t *testing.T) {
	t.Run("email is lowercased", func(t *testing.T) {
		u := newOperator(t)
		require.NoError(t, u.SetEmail("Almacen@Bodega.MX"))
		assert.Equal(t, "almacen@bodega.mx", u.Email)
	})

	t.Run("email can be cleared", func(t *testing.T) {
		u := newOperator(t)
		require.NoError(t, u.SetEmail("almacen@bodega.mx"))
		require.NoError(t, u.SetEmail(""))
		assert.Empty(t, u.Email)
	})

	t.Run("bad email format is rejected", func(t *testing.T) {
		u := newOperator(t)
		err := u.SetEmail("bodega-central")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid email")
	})

	t.Run("phone keeps its formatting", func(t *testing.T) {
		u := newOperator(t)
		require.NoError(t, u.SetPhone("+52 55 1234 5678"))
		assert.Equal(t, "+52 55 1234 5678", u.Phone)
	})

	t.Run("display name", func(t *testing.T) {
		u := newOperator(t)
		require.NoError(t, u.SetDisplayName("Turno Matutino"))
		assert.Equal(t, "Turno Matutino", u.DisplayName)
		assert.Equal(t, "Turno Matutino", u.GetDisplayNameOrUsername())
	})

	t.Run("username stands in for a missing display name", func(t *testing.T) {
		u := newOperator(t)
		assert.Equal(t, "almacenista", u.GetDisplayNameOrUsername())
	})
}

func TestUserPasswords(t *testing.T) {
	t.Run("verify matches only the real password", func(t *testing.T) {
		u := newOperator(t)
		assert.True(t, u.VerifyPassword("Bodega2024"))
		assert.False(t, u.VerifyPassword("Bodega2025"))
	})

	t.Run("change requires the current password", func(t *testing.T) {
		u := newOperator(t)

		err := u.ChangePassword("equivocada1", "Recuento2024")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "incorrect")

		require.NoError(t, u.ChangePassword("Bodega2024", "Recuento2024"))
		assert.True(t, u.VerifyPassword("Recuento2024"))
		assert.False(t, u.VerifyPassword("Bodega2024"))

		events := u.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*UserPasswordChangedEvent)
		assert.True(t, ok)
	})

	t.Run("admin reset skips the current password and clears the forced flag", func(t *testing.T) {
		u := newOperator(t)
		u.ForcePasswordChange()
		assert.True(t, u.MustChangePassword)

		require.NoError(t, u.SetPassword("Recuento2024"))
		assert.True(t, u.VerifyPassword("Recuento2024"))
		assert.False(t, u.MustChangePassword)
	})
}

func TestUserLifecycle(t *testing.T) {
	t.Run("activate publishes the transition", func(t *testing.T) {
		u, err := NewUser("almacenista", "Bodega2024")
		require.NoError(t, err)
		u.ClearDomainEvents()

		require.NoError(t, u.Activate())
		assert.True(t, u.IsActive())

		events := u.GetDomainEvents()
		require.Len(t, events, 1)
		change, ok := events[0].(*UserStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, UserStatusPending, change.OldStatus)
		assert.Equal(t, UserStatusActive, change.NewStatus)
	})

	t.Run("activate is not idempotent", func(t *testing.T) {
		u := newOperator(t)
		err := u.Activate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already active")
	})

	t.Run("deactivate publishes two events", func(t *testing.T) {
		u := newOperator(t)
		require.NoError(t, u.Deactivate())
		assert.True(t, u.IsDeactivated())
		assert.Len(t, u.GetDomainEvents(), 2)

		err := u.Deactivate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already deactivated")
	})

	t.Run("timed lock", func(t *testing.T) {
		u := newOperator(t)
		require.NoError(t, u.Lock(time.Hour))
		assert.True(t, u.IsLocked())
		assert.NotNil(t, u.LockedUntil)
	})

	t.Run("indefinite lock has no expiry", func(t *testing.T) {
		u := newOperator(t)
		require.NoError(t, u.Lock(0))
		assert.True(t, u.IsLocked())
		assert.Nil(t, u.LockedUntil)
	})

	t.Run("deactivated accounts cannot be locked", func(t *testing.T) {
		u := newOperator(t)
		require.NoError(t, u.Deactivate())
		assert.Error(t, u.Lock(time.Hour))
	})

	t.Run("unlock restores active and resets attempts", func(t *testing.T) {
		u := newOperator(t)
		u.FailedAttempts = 4
		require.NoError(t, u.Lock(time.Hour))

		require.NoError(t, u.Unlock())
		assert.True(t, u.IsActive())
		assert.Zero(t, u.FailedAttempts)
		assert.Nil(t, u.LockedUntil)
	})

	t.Run("unlock requires a locked account", func(t *testing.T) {
		u := newOperator(t)
		assert.Error(t, u.Unlock())
	})
}

func TestUserLoginThrottling(t *testing.T) {
	t.Run("success resets the counter and stamps the login", func(t *testing.T) {
		u := newOperator(t)
		u.FailedAttempts = 3

		u.RecordLoginSuccess("10.20.0.14")

		assert.NotNil(t, u.LastLoginAt)
		assert.Equal(t, "10.20.0.14", u.LastLoginIP)
		assert.Zero(t, u.FailedAttempts)
	})

	t.Run("failures lock at the threshold", func(t *testing.T) {
		u := newOperator(t)

		for i := 0; i < 4; i++ {
			assert.False(t, u.RecordLoginFailure(5, time.Hour))
			assert.Equal(t, i+1, u.FailedAttempts)
		}
		assert.True(t, u.RecordLoginFailure(5, time.Hour))
		assert.True(t, u.IsLocked())
	})

	t.Run("login gate per status", func(t *testing.T) {
		pending, err := NewUser("almacenista", "Bodega2024")
		require.NoError(t, err)
		assert.True(t, pending.IsPending())
		assert.False(t, pending.CanLogin())

		active := newOperator(t)
		assert.True(t, active.CanLogin())

		locked := newOperator(t)
		require.NoError(t, locked.Lock(time.Hour))
		assert.False(t, locked.CanLogin())

		retired := newOperator(t)
		require.NoError(t, retired.Deactivate())
		assert.False(t, retired.CanLogin())
	})

	t.Run("an expired lock no longer blocks logins", func(t *testing.T) {
		u := newOperator(t)
		u.Status = UserStatusLocked
		past := time.Now().Add(-time.Hour)
		u.LockedUntil = &past

		assert.False(t, u.IsLocked())
		assert.True(t, u.CanLogin())
	})
}

func TestUserFilter(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f := NewUserFilter()
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 20, f.PageSize)
		assert.Equal(t, "created_at", f.SortBy)
		assert.Equal(t, "desc", f.SortOrder)
	})

	t.Run("builders compose", func(t *testing.T) {
		f := NewUserFilter().
			WithKeyword("turno").
			WithStatus(UserStatusActive).
			WithPagination(3, 25).
			WithSorting("username", "asc")

		assert.Equal(t, "turno", f.Keyword)
		require.NotNil(t, f.Status)
		assert.Equal(t, UserStatusActive, *f.Status)
		assert.Equal(t, 50, f.Offset())
		assert.Equal(t, 25, f.Limit())
		assert.Equal(t, "username", f.SortBy)
	})

	t.Run("limit clamps out-of-range page sizes", func(t *testing.T) {
		assert.Equal(t, 20, UserFilter{PageSize: 0}.Limit())
		assert.Equal(t, 100, UserFilter{PageSize: 500}.Limit())
		assert.Equal(t, 0, UserFilter{Page: -1, PageSize: 20}.Offset())
	})
}
