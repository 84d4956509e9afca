package identity

import (
	"time"

	"github.com/google/uuid"
)

// LoginInput carries the credentials plus the client IP, which is
// stamped onto the account for the audit trail.
type LoginInput struct {
	Username string
	Password string
	IP       string
}

// LoginResult is the issued token pair plus the profile the UI needs
// right after login.
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo is the slim profile embedded in auth responses
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	Email       string
	Phone       string
	Role        string
}

type RefreshTokenInput struct {
	RefreshToken string
}

type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput identifies the session to revoke. TokenTTL bounds how
// long the jti must stay on the blacklist.
type LogoutInput struct {
	UserID   uuid.UUID
	Username string
	TokenJTI string
	TokenTTL time.Duration
}

type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

type GetCurrentUserInput struct {
	UserID uuid.UUID
}

type CurrentUserResult struct {
	User UserInfo
}
