package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/wms/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus is the lifecycle state of a warehouse account
type UserStatus string

const (
	UserStatusPending     UserStatus = "pending"
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

// Role is the coarse access role. Admins manage accounts and master
// data; operators record counts and browse the floor map.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
)

const bcryptCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterPattern   = regexp.MustCompile(`[a-zA-Z]`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
)

// User is the aggregate root for warehouse staff accounts. Login
// throttling state (failed attempts, lock window) lives on the
// aggregate so the policy survives restarts.
type User struct {
	shared.BaseAggregateRoot
	Username           string
	Email              string
	Phone              string
	PasswordHash       string
	DisplayName        string
	Role               Role
	Status             UserStatus
	LastLoginAt        *time.Time
	LastLoginIP        string
	FailedAttempts     int
	LockedUntil        *time.Time
	PasswordChangedAt  *time.Time
	MustChangePassword bool
	Notes              string
}

// NewUser creates a pending account with the operator role. Usernames
// are stored lowercased so lookups are case-insensitive.
func NewUser(username, password string) (*User, error) {
	if err := checkUsername(username); err != nil {
		return nil, err
	}
	if err := checkPassword(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:      string(hash),
		Role:              RoleOperator,
		Status:            UserStatusPending,
		PasswordChangedAt: &now,
	}
	u.AddDomainEvent(NewUserCreatedEvent(u))
	return u, nil
}

// NewActiveUser creates an account that can log in immediately, for
// admin-provisioned staff that needs no activation step.
func NewActiveUser(username, password string) (*User, error) {
	u, err := NewUser(username, password)
	if err != nil {
		return nil, err
	}
	u.Status = UserStatusActive
	return u, nil
}

// bump records a mutation on the aggregate
func (u *User) bump() {
	u.Touch()
	u.IncrementVersion()
}

// SetEmail sets the contact email. An empty value clears it.
func (u *User) SetEmail(email string) error {
	if email != "" {
		email = strings.ToLower(strings.TrimSpace(email))
		if len(email) > 200 {
			return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
		}
		if !emailPattern.MatchString(email) {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	u.Email = email
	u.bump()
	return nil
}

func (u *User) SetPhone(phone string) error {
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	u.Phone = strings.TrimSpace(phone)
	u.bump()
	return nil
}

func (u *User) SetDisplayName(displayName string) error {
	if displayName != "" && len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	u.DisplayName = strings.TrimSpace(displayName)
	u.bump()
	return nil
}

func (u *User) SetNotes(notes string) {
	u.Notes = notes
	u.bump()
}

// ChangePassword replaces the password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword replaces the password without checking the old one. Used
// by admin resets; also clears any pending forced change.
func (u *User) SetPassword(newPassword string) error {
	if err := checkPassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	now := time.Now()
	u.PasswordHash = string(hash)
	u.PasswordChangedAt = &now
	u.MustChangePassword = false
	u.bump()

	u.AddDomainEvent(NewUserPasswordChangedEvent(u))
	return nil
}

// ForcePasswordChange flags the account so the next login must rotate
// the password before anything else.
func (u *User) ForcePasswordChange() {
	u.MustChangePassword = true
	u.bump()
}

func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) SetRole(role Role) error {
	if role != RoleAdmin && role != RoleOperator {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	u.Role = role
	u.bump()
	return nil
}

// Activate moves the account to active and clears throttling state
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}

	prev := u.Status
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.bump()

	u.AddDomainEvent(NewUserStatusChangedEvent(u, prev, UserStatusActive))
	return nil
}

func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}

	prev := u.Status
	u.Status = UserStatusDeactivated
	u.bump()

	u.AddDomainEvent(NewUserDeactivatedEvent(u))
	u.AddDomainEvent(NewUserStatusChangedEvent(u, prev, UserStatusDeactivated))
	return nil
}

// Lock blocks logins. With duration zero the lock has no expiry and
// stands until an admin unlocks the account.
func (u *User) Lock(duration time.Duration) error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("USER_DEACTIVATED", "Cannot lock a deactivated user")
	}

	prev := u.Status
	u.Status = UserStatusLocked
	if duration > 0 {
		until := time.Now().Add(duration)
		u.LockedUntil = &until
	}
	u.bump()

	u.AddDomainEvent(NewUserStatusChangedEvent(u, prev, UserStatusLocked))
	return nil
}

func (u *User) Unlock() error {
	if u.Status != UserStatusLocked {
		return shared.NewDomainError("NOT_LOCKED", "User is not locked")
	}

	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.bump()

	u.AddDomainEvent(NewUserStatusChangedEvent(u, UserStatusLocked, UserStatusActive))
	return nil
}

// RecordLoginSuccess stamps the login and resets the failure counter
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	u.bump()
}

// RecordLoginFailure counts a bad credential attempt and locks the
// account once maxAttempts is reached. Reports whether it locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.bump()

	if u.FailedAttempts >= maxAttempts {
		_ = u.Lock(lockDuration)
		return true
	}
	return false
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsLocked reports whether the lock is still in force. An expired lock
// window counts as unlocked even before the status is updated.
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

func (u *User) IsDeactivated() bool {
	return u.Status == UserStatusDeactivated
}

func (u *User) IsPending() bool {
	return u.Status == UserStatusPending
}

// CanLogin reports whether a credential check is even worth running
func (u *User) CanLogin() bool {
	switch {
	case u.Status == UserStatusDeactivated:
		return false
	case u.Status == UserStatusPending:
		return false
	case u.IsLocked():
		return false
	}
	return true
}

// GetDisplayNameOrUsername is what reports and the UI show for the user
func (u *User) GetDisplayNameOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func checkUsername(username string) error {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	case len(username) < 3:
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	case len(username) > 100:
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	case !usernamePattern.MatchString(username):
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func checkPassword(password string) error {
	switch {
	case password == "":
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	case len(password) < 8:
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	case len(password) > 128:
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	case !letterPattern.MatchString(password) || !digitPattern.MatchString(password):
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}
