// Package alert models operational alerts raised by the system, such as
// critical stock detected during a layout upload.
package alert

import (
	"time"

	"github.com/wms/backend/internal/domain/shared"
)

// Severity of an alert
type Severity string

// Alert severities
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// State of an alert
type State string

// Alert states
const (
	StateActive State = "active"
	StateClosed State = "closed"
)

// Alert types
const (
	TypeCriticalStock = "critical_stock"
	TypeSystem        = "system"
)

// Alert is one operational notification shown on the dashboard
type Alert struct {
	shared.BaseAggregateRoot
	Type     string
	Message  string
	Severity Severity
	Origin   string
	Username string
	State    State
	Details  string
	ClosedAt *time.Time
}

// NewAlert creates an active alert
func NewAlert(alertType, message string, severity Severity, origin, username string) (*Alert, error) {
	if message == "" {
		return nil, shared.NewDomainError("INVALID_ALERT", "Alert message cannot be empty")
	}
	if alertType == "" {
		alertType = TypeSystem
	}
	if severity == "" {
		severity = SeverityInfo
	}

	return &Alert{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              alertType,
		Message:           message,
		Severity:          severity,
		Origin:            origin,
		Username:          username,
		State:             StateActive,
	}, nil
}

// WithDetails attaches a JSON detail payload
func (a *Alert) WithDetails(details string) *Alert {
	a.Details = details
	return a
}

// Close marks the alert as handled
func (a *Alert) Close() error {
	if a.State == StateClosed {
		return shared.NewDomainError("ALERT_ALREADY_CLOSED", "Alert is already closed")
	}
	now := time.Now()
	a.State = StateClosed
	a.ClosedAt = &now
	a.UpdatedAt = now
	return nil
}

// IsActive reports whether the alert still needs attention
func (a *Alert) IsActive() bool {
	return a.State == StateActive
}
