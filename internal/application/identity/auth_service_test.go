package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

type userRepoMock struct {
	mock.Mock
}

func userOrNil(args mock.Arguments) (*identity.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *userRepoMock) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) Update(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return userOrNil(m.Called(ctx, id))
}

func (m *userRepoMock) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	return userOrNil(m.Called(ctx, username))
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return userOrNil(m.Called(ctx, email))
}

func (m *userRepoMock) FindByPhone(ctx context.Context, phone string) (*identity.User, error) {
	return userOrNil(m.Called(ctx, phone))
}

func (m *userRepoMock) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *userRepoMock) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *userRepoMock) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *userRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func activeOperator(t *testing.T) *identity.User {
	t.Helper()
	user, err := identity.NewActiveUser("almacenista", "Bodega2024")
	require.NoError(t, err)
	return user
}

func newAuthService(repo *userRepoMock) *AuthService {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "clave-acceso-bodega-32-caracteres",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "wms-backend",
		MaxRefreshCount:        10,
	})
	return NewAuthService(repo, jwtService, nil, nil, DefaultAuthServiceConfig(), zap.NewNop())
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	return domainErr.Code
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a token pair on good credentials", func(t *testing.T) {
		repo := new(userRepoMock)
		user := activeOperator(t)
		repo.On("FindByUsername", ctx, "almacenista").Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)

		result, err := newAuthService(repo).Login(ctx, LoginInput{
			Username: "almacenista",
			Password: "Bodega2024",
			IP:       "10.20.0.14",
		})

		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, "almacenista", result.User.Username)
		assert.Equal(t, string(identity.RoleOperator), result.User.Role)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password and unknown user yield the same code", func(t *testing.T) {
		repo := new(userRepoMock)
		user := activeOperator(t)
		repo.On("FindByUsername", ctx, "almacenista").Return(user, nil)
		repo.On("FindByUsername", ctx, "fantasma").Return(nil, errors.New("not found"))
		repo.On("Update", ctx, user).Return(nil)
		svc := newAuthService(repo)

		_, err := svc.Login(ctx, LoginInput{Username: "almacenista", Password: "equivocada1"})
		assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))

		_, err = svc.Login(ctx, LoginInput{Username: "fantasma", Password: "Bodega2024"})
		assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
	})

	t.Run("status gates", func(t *testing.T) {
		tests := []struct {
			name     string
			mutate   func(*identity.User)
			wantCode string
		}{
			{"locked", func(u *identity.User) { _ = u.Lock(time.Hour) }, "ACCOUNT_LOCKED"},
			{"deactivated", func(u *identity.User) { _ = u.Deactivate() }, "ACCOUNT_DEACTIVATED"},
			{"pending", func(u *identity.User) { u.Status = identity.UserStatusPending }, "ACCOUNT_PENDING"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := new(userRepoMock)
				user := activeOperator(t)
				tt.mutate(user)
				repo.On("FindByUsername", ctx, "almacenista").Return(user, nil)

				_, err := newAuthService(repo).Login(ctx, LoginInput{
					Username: "almacenista",
					Password: "Bodega2024",
				})
				assert.Equal(t, tt.wantCode, domainCode(t, err))
			})
		}
	})

	t.Run("the final bad attempt locks the account", func(t *testing.T) {
		repo := new(userRepoMock)
		user := activeOperator(t)
		user.FailedAttempts = 4
		repo.On("FindByUsername", ctx, "almacenista").Return(user, nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		_, err := newAuthService(repo).Login(ctx, LoginInput{
			Username: "almacenista",
			Password: "equivocada1",
		})

		assert.Equal(t, "ACCOUNT_LOCKED", domainCode(t, err))
		assert.True(t, user.IsLocked())
	})
}

func TestAuthServiceRefreshToken(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, repo *userRepoMock, svc *AuthService) *LoginResult {
		t.Helper()
		result, err := svc.Login(ctx, LoginInput{
			Username: "almacenista",
			Password: "Bodega2024",
			IP:       "10.20.0.14",
		})
		require.NoError(t, err)
		return result
	}

	t.Run("rotates the pair", func(t *testing.T) {
		repo := new(userRepoMock)
		user := activeOperator(t)
		repo.On("FindByUsername", ctx, "almacenista").Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		svc := newAuthService(repo)

		first := login(t, repo, svc)
		refreshed, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: first.RefreshToken})

		require.NoError(t, err)
		assert.NotEmpty(t, refreshed.AccessToken)
		assert.NotEmpty(t, refreshed.RefreshToken)
		assert.Equal(t, "Bearer", refreshed.TokenType)
		assert.NotEqual(t, first.AccessToken, refreshed.AccessToken)
	})

	t.Run("rejects garbage tokens", func(t *testing.T) {
		svc := newAuthService(new(userRepoMock))

		_, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: "no-es-un-token"})
		assert.Equal(t, "TOKEN_INVALID", domainCode(t, err))
	})

	t.Run("rejects refresh for a deleted user", func(t *testing.T) {
		repo := new(userRepoMock)
		user := activeOperator(t)
		repo.On("FindByUsername", ctx, "almacenista").Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)
		repo.On("FindByID", ctx, user.ID).Return(nil, errors.New("not found"))
		svc := newAuthService(repo)

		first := login(t, repo, svc)
		_, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: first.RefreshToken})
		assert.Equal(t, "USER_NOT_FOUND", domainCode(t, err))
	})

	t.Run("rejects refresh once the account is deactivated", func(t *testing.T) {
		repo := new(userRepoMock)
		user := activeOperator(t)
		repo.On("FindByUsername", ctx, "almacenista").Return(user, nil)
		repo.On("Update", ctx, user).Return(nil)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		svc := newAuthService(repo)

		first := login(t, repo, svc)
		require.NoError(t, user.Deactivate())

		_, err := svc.RefreshToken(ctx, RefreshTokenInput{RefreshToken: first.RefreshToken})
		assert.Equal(t, "ACCOUNT_INACTIVE", domainCode(t, err))
	})
}

func TestAuthServiceGetCurrentUser(t *testing.T) {
	ctx := context.Background()
	repo := new(userRepoMock)
	user := activeOperator(t)
	repo.On("FindByID", ctx, user.ID).Return(user, nil)

	result, err := newAuthService(repo).GetCurrentUser(ctx, GetCurrentUserInput{UserID: user.ID})

	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, "almacenista", result.User.Username)
	assert.Equal(t, string(identity.RoleOperator), result.User.Role)
	repo.AssertExpectations(t)
}

func TestAuthServiceChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds with the current password", func(t *testing.T) {
		repo := new(userRepoMock)
		user := activeOperator(t)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)
		repo.On("Update", ctx, mock.Anything).Return(nil)

		err := newAuthService(repo).ChangePassword(ctx, ChangePasswordInput{
			UserID:      user.ID,
			OldPassword: "Bodega2024",
			NewPassword: "Recuento2024",
		})

		require.NoError(t, err)
		assert.True(t, user.VerifyPassword("Recuento2024"))
		repo.AssertExpectations(t)
	})

	t.Run("rejects a wrong current password", func(t *testing.T) {
		repo := new(userRepoMock)
		user := activeOperator(t)
		repo.On("FindByID", ctx, user.ID).Return(user, nil)

		err := newAuthService(repo).ChangePassword(ctx, ChangePasswordInput{
			UserID:      user.ID,
			OldPassword: "equivocada1",
			NewPassword: "Recuento2024",
		})

		assert.Equal(t, "INVALID_PASSWORD", domainCode(t, err))
	})
}

func TestAuthServiceLogout(t *testing.T) {
	// No blacklist configured; logout is a no-op that must not fail
	err := newAuthService(new(userRepoMock)).Logout(context.Background(), LogoutInput{
		UserID:   uuid.New(),
		Username: "almacenista",
		TokenJTI: "jti-turno-1",
		TokenTTL: 10 * time.Minute,
	})
	require.NoError(t, err)
}
