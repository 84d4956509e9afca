package inventory

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wms/backend/internal/domain/shared"
)

// CountEntry is one line of a physical count submitted from the tally
// screen. Entries are saved wholesale; the previous saved count is replaced.
type CountEntry struct {
	shared.BaseEntity
	MaterialCode string
	Location     string
	RealCount    decimal.Decimal
	CountedAt    time.Time
}

// NewCountEntry creates a count line. Entries missing either key field are
// rejected so the caller can skip them with a warning.
func NewCountEntry(materialCode, location string, realCount decimal.Decimal, countedAt time.Time) (*CountEntry, error) {
	materialCode = strings.TrimSpace(materialCode)
	location = strings.TrimSpace(location)
	if materialCode == "" || location == "" {
		return nil, shared.NewDomainError("INVALID_COUNT_ENTRY", "Count entry requires material code and location")
	}
	if realCount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COUNT_ENTRY", "Counted quantity cannot be negative")
	}

	return &CountEntry{
		BaseEntity:   shared.NewBaseEntity(),
		MaterialCode: materialCode,
		Location:     location,
		RealCount:    realCount,
		CountedAt:    countedAt,
	}, nil
}
