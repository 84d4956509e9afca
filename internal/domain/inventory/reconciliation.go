package inventory

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ReconciliationStatus classifies the difference between system and counted
// quantities for one (material, location) key.
type ReconciliationStatus string

// Reconciliation statuses in classification priority order
const (
	StatusNotCounted    ReconciliationStatus = "NOT_COUNTED"
	StatusOK            ReconciliationStatus = "OK"
	StatusCriticalShort ReconciliationStatus = "CRITICAL_SHORT"
	StatusShort         ReconciliationStatus = "SHORT"
	StatusOver          ReconciliationStatus = "OVER"
)

// CriticalShortThreshold is the signed difference at or below which a
// shortage is critical.
var CriticalShortThreshold = decimal.NewFromInt(-10)

// Label returns the Spanish display label used on screen and in exports
func (s ReconciliationStatus) Label() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusShort:
		return "FALTA"
	case StatusCriticalShort:
		return "CRÍTICO"
	case StatusOver:
		return "SOBRA"
	default:
		return "NO CONTADO"
	}
}

// CountRecord is one submitted count line keyed by (material, location)
type CountRecord struct {
	MaterialCode string
	Location     string
	RealCount    decimal.Decimal
}

// ReconciledRow is the classified outcome for one (material, location) key
type ReconciledRow struct {
	MaterialCode string
	MaterialText string
	BaseUnit     string
	Location     string
	SystemQty    decimal.Decimal
	CountedQty   decimal.Decimal
	Counted      bool
	Difference   decimal.Decimal
	Status       ReconciliationStatus
}

// ReconcileResult carries the merged rows plus the number of structurally
// invalid count entries that were skipped.
type ReconcileResult struct {
	Rows           []ReconciledRow
	SkippedEntries int
}

type mergeKey struct {
	materialCode string
	location     string
}

// Reconcile merges the current snapshot with a submitted count as a full
// outer join on (material_code, location). Every key from either side
// produces exactly one output row: system rows first in snapshot order, then
// count-only rows in submission order. Count entries missing a key field are
// skipped, never fatal.
func Reconcile(system []InventoryItem, count []CountRecord) ReconcileResult {
	result := ReconcileResult{Rows: make([]ReconciledRow, 0, len(system))}

	counted := make(map[mergeKey]decimal.Decimal, len(count))
	countOrder := make([]mergeKey, 0, len(count))
	countRows := make(map[mergeKey]CountRecord, len(count))
	for _, c := range count {
		key := mergeKey{strings.TrimSpace(c.MaterialCode), strings.TrimSpace(c.Location)}
		if key.materialCode == "" || key.location == "" {
			result.SkippedEntries++
			continue
		}
		if _, seen := counted[key]; !seen {
			countOrder = append(countOrder, key)
		}
		// Repeated entries for one key: the last submission wins
		counted[key] = c.RealCount
		countRows[key] = c
	}

	matched := make(map[mergeKey]bool, len(system))
	for _, item := range system {
		key := mergeKey{item.MaterialCode, item.Location}
		row := ReconciledRow{
			MaterialCode: item.MaterialCode,
			MaterialText: item.MaterialText,
			BaseUnit:     item.BaseUnit,
			Location:     item.Location,
			SystemQty:    item.OnHand,
		}
		if qty, ok := counted[key]; ok {
			matched[key] = true
			row.Counted = true
			row.CountedQty = qty
			row.Difference = qty.Sub(item.OnHand)
		}
		row.Status = classify(row)
		result.Rows = append(result.Rows, row)
	}

	for _, key := range countOrder {
		if matched[key] {
			continue
		}
		qty := counted[key]
		row := ReconciledRow{
			MaterialCode: key.materialCode,
			Location:     key.location,
			SystemQty:    decimal.Zero,
			CountedQty:   qty,
			Counted:      true,
			Difference:   qty,
		}
		row.Status = classify(row)
		result.Rows = append(result.Rows, row)
	}

	return result
}

func classify(row ReconciledRow) ReconciliationStatus {
	if !row.Counted {
		return StatusNotCounted
	}
	switch {
	case row.Difference.IsZero():
		return StatusOK
	case row.Difference.LessThanOrEqual(CriticalShortThreshold):
		return StatusCriticalShort
	case row.Difference.IsNegative():
		return StatusShort
	default:
		return StatusOver
	}
}
