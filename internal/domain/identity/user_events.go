package identity

import (
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

const AggregateTypeUser = "User"

const (
	EventTypeUserCreated         = "UserCreated"
	EventTypeUserDeactivated     = "UserDeactivated"
	EventTypeUserPasswordChanged = "UserPasswordChanged"
	EventTypeUserStatusChanged   = "UserStatusChanged"
)

func userEvent(eventType string, u *User) shared.BaseDomainEvent {
	return shared.NewBaseDomainEvent(eventType, AggregateTypeUser, u.ID)
}

// UserCreatedEvent fires once per account, on registration
type UserCreatedEvent struct {
	shared.BaseDomainEvent
	Username string     `json:"username"`
	Email    string     `json:"email"`
	Status   UserStatus `json:"status"`
}

func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		BaseDomainEvent: userEvent(EventTypeUserCreated, u),
		Username:        u.Username,
		Email:           u.Email,
		Status:          u.Status,
	}
}

// UserDeactivatedEvent fires when an account is retired. Subscribers
// use it to drop the user's active sessions.
type UserDeactivatedEvent struct {
	shared.BaseDomainEvent
	Username string `json:"username"`
}

func NewUserDeactivatedEvent(u *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		BaseDomainEvent: userEvent(EventTypeUserDeactivated, u),
		Username:        u.Username,
	}
}

// UserPasswordChangedEvent fires on both self-service changes and
// admin resets
type UserPasswordChangedEvent struct {
	shared.BaseDomainEvent
	Username  string    `json:"username"`
	ChangedAt time.Time `json:"changed_at"`
}

func NewUserPasswordChangedEvent(u *User) *UserPasswordChangedEvent {
	changedAt := time.Now()
	if u.PasswordChangedAt != nil {
		changedAt = *u.PasswordChangedAt
	}
	return &UserPasswordChangedEvent{
		BaseDomainEvent: userEvent(EventTypeUserPasswordChanged, u),
		Username:        u.Username,
		ChangedAt:       changedAt,
	}
}

// UserStatusChangedEvent fires on every lifecycle transition, carrying
// both sides of the move for the audit trail
type UserStatusChangedEvent struct {
	shared.BaseDomainEvent
	Username  string     `json:"username"`
	OldStatus UserStatus `json:"old_status"`
	NewStatus UserStatus `json:"new_status"`
}

func NewUserStatusChangedEvent(u *User, oldStatus, newStatus UserStatus) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		BaseDomainEvent: userEvent(EventTypeUserStatusChanged, u),
		Username:        u.Username,
		OldStatus:       oldStatus,
		NewStatus:       newStatus,
	}
}
