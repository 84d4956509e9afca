package persistence

import (
	"strings"
)

// Sort parameters arrive from query strings and end up concatenated
// into ORDER BY clauses, so both the column and the direction are
// checked against closed sets before any SQL sees them.

// ValidateSortOrder normalizes the direction, falling back to DESC for
// anything that is not ASC.
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField when the whitelist allows it and
// defaultField otherwise.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	field := strings.TrimSpace(sortField)
	if field != "" && allowedFields[field] {
		return field
	}
	return defaultField
}

// CommonSortFields covers the base columns every table carries
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// UserSortFields is the whitelist for the account listing
var UserSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"role":          true,
	"status":        true,
	"last_login_at": true,
}

// SnapshotSortFields is the whitelist for inventory snapshot listings
var SnapshotSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"label":       true,
	"uploaded_by": true,
	"row_count":   true,
}

// SlotSortFields is the whitelist for layout slot listings
var SlotSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"material_code": true,
	"location":      true,
	"on_hand":       true,
	"safety_stock":  true,
	"max_stock":     true,
}

// AlertSortFields is the whitelist for alert listings
var AlertSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"type":       true,
	"severity":   true,
	"state":      true,
	"username":   true,
	"closed_at":  true,
}

// EquipmentSortFields is the whitelist for equipment listings
var EquipmentSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"code":        true,
	"description": true,
	"area":        true,
}

// AuditSortFields is the whitelist for audit trail listings
var AuditSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"actor":      true,
	"action":     true,
	"entity":     true,
}
