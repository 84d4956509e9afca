package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	auditapp "github.com/wms/backend/internal/application/audit"
	"github.com/wms/backend/internal/domain/audit"
	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/domain/shared"
	"github.com/wms/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig tunes the login throttling policy
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService owns the login, refresh, and logout flows. Failed logins
// count against the account and lock it at the configured threshold.
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	recorder   *auditapp.Recorder
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService wires the auth flows. blacklist and recorder may be
// nil; logout then degrades to client-side token disposal and failed
// logins go unaudited.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	recorder *auditapp.Recorder,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		recorder:   recorder,
		config:     config,
		logger:     logger,
	}
}

// Login checks the credentials and issues a token pair. Unknown
// usernames and wrong passwords return the same error so the response
// does not reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("username", input.Username))

	user, err := s.userRepo.FindByUsername(ctx, input.Username)
	if err != nil {
		s.logger.Warn("Login for unknown username", zap.String("username", input.Username))
		s.recorder.Record(ctx, input.Username, audit.ActionLoginFailed, "User", "unknown username")
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	}

	if !user.CanLogin() {
		s.logger.Warn("Login blocked by account status",
			zap.String("username", input.Username),
			zap.String("status", string(user.Status)))
		return nil, loginBlockedError(user)
	}

	if !user.VerifyPassword(input.Password) {
		return nil, s.handleBadPassword(ctx, user)
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	// A failed stamp update must not undo an otherwise good login
	user.RecordLoginSuccess(input.IP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to stamp login on user", zap.Error(err))
	}

	s.recorder.Record(ctx, user.Username, audit.ActionLogin, "User", input.IP)
	s.logger.Info("User logged in",
		zap.String("username", input.Username),
		zap.String("user_id", user.ID.String()))

	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  userInfo(user),
	}, nil
}

// handleBadPassword counts the failure and reports whether it tripped
// the lock, always returning the error the caller should surface.
func (s *AuthService) handleBadPassword(ctx context.Context, user *identity.User) error {
	locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to persist login failure", zap.Error(err))
	}
	s.recorder.Record(ctx, user.Username, audit.ActionLoginFailed, "User", "wrong password")

	if locked {
		s.logger.Warn("Account locked after repeated failures",
			zap.String("username", user.Username),
			zap.Int("attempts", s.config.MaxLoginAttempts))
		return shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
	}

	s.logger.Warn("Wrong password",
		zap.String("username", user.Username),
		zap.Int("failed_attempts", user.FailedAttempts))
	return shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
}

func loginBlockedError(user *identity.User) error {
	switch {
	case user.IsLocked():
		return shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later or contact support")
	case user.IsDeactivated():
		return shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	case user.IsPending():
		return shared.NewDomainError("ACCOUNT_PENDING", "Account is pending activation")
	}
	return shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
}

// RefreshToken rotates the token pair. The user is re-read so a role
// change or deactivation since login takes effect on the next refresh.
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token rejected", zap.Error(err))
		return nil, mapTokenError(err)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		s.logger.Error("Malformed user ID in refresh token", zap.Error(err))
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Refresh for unknown user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	if !user.CanLogin() {
		s.logger.Warn("Refresh for inactive account", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	pair, err := s.jwtService.RefreshTokenPair(input.RefreshToken, string(user.Role))
	if err != nil {
		s.logger.Warn("Token rotation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))

	return &RefreshTokenResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
	}, nil
}

// Logout blacklists the access token's jti for its remaining lifetime.
// Without a blacklist the client just discards its tokens.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout", zap.String("user_id", input.UserID.String()))

	if s.blacklist != nil && input.TokenJTI != "" && input.TokenTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
			s.logger.Error("Failed to blacklist token on logout",
				zap.String("jti", input.TokenJTI),
				zap.Error(err))
			return shared.NewDomainError("INTERNAL_ERROR", "Failed to revoke token")
		}
	}
	return nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, input GetCurrentUserInput) (*CurrentUserResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}
	return &CurrentUserResult{User: userInfo(user)}, nil
}

// ChangePassword is the self-service variant; it requires the current
// password, unlike the admin reset in UserService.
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to persist password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to update password")
	}

	s.logger.Info("Password changed", zap.String("user_id", input.UserID.String()))
	return nil
}

func userInfo(user *identity.User) UserInfo {
	return UserInfo{
		ID:          user.ID,
		Username:    user.Username,
		DisplayName: user.GetDisplayNameOrUsername(),
		Email:       user.Email,
		Phone:       user.Phone,
		Role:        string(user.Role),
	}
}

func mapTokenError(err error) error {
	switch err {
	case auth.ErrExpiredToken:
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case auth.ErrInvalidToken, auth.ErrInvalidTokenType:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	case auth.ErrMaxRefreshExceeded:
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	}
	return shared.NewDomainError("TOKEN_ERROR", "Failed to validate refresh token")
}
