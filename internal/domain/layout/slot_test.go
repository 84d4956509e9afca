package layout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSlot(t *testing.T, code, location string, onHand, safety, max int64) *Slot {
	t.Helper()
	slot, err := NewSlot(code, "desc "+code, "UN", location,
		decimal.NewFromInt(onHand), decimal.NewFromInt(safety),
		decimal.NewFromInt(max), decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	return slot
}

func TestSlotStatus(t *testing.T) {
	tests := []struct {
		name   string
		onHand int64
		safety int64
		max    int64
		status SlotStatus
	}{
		{"no stock", 0, 10, 100, StatusEmpty},
		{"negative stock", -2, 10, 100, StatusEmpty},
		{"no maximum defined", 7, 10, 0, StatusNormal},
		{"below safety", 5, 10, 100, StatusCritical},
		{"below half occupancy", 30, 10, 100, StatusLow},
		{"healthy", 80, 10, 100, StatusNormal},
		{"exactly half occupancy", 50, 10, 100, StatusNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := newSlot(t, "M1", "E001", tt.onHand, tt.safety, tt.max)
			assert.Equal(t, tt.status, slot.Status())
		})
	}
}

func TestNewSlot_RequiresKeyFields(t *testing.T) {
	_, err := NewSlot("", "x", "UN", "E001", decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
	assert.Error(t, err)

	_, err = NewSlot("M1", "x", "UN", "   ", decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero)
	assert.Error(t, err)
}

func TestWorstStatus(t *testing.T) {
	assert.Equal(t, StatusCritical, WorstStatus(StatusNormal, StatusCritical))
	assert.Equal(t, StatusCritical, WorstStatus(StatusCritical, StatusEmpty))
	assert.Equal(t, StatusLow, WorstStatus(StatusLow, StatusNormal))
	assert.Equal(t, StatusNormal, WorstStatus(StatusEmpty, StatusNormal))
}

func TestSummarizeByLocation(t *testing.T) {
	slots := []Slot{
		*newSlot(t, "M1", "E001", 80, 10, 100),
		*newSlot(t, "M2", "E001", 5, 10, 100),
		*newSlot(t, "M3", "E002", 0, 10, 100),
	}

	summaries := SummarizeByLocation(slots)

	require.Len(t, summaries, 2)
	first := summaries[0]
	assert.Equal(t, "E001", first.Location)
	assert.Equal(t, 2, first.ItemCount)
	assert.True(t, first.TotalOnHand.Equal(decimal.NewFromInt(85)))
	assert.Equal(t, StatusCritical, first.Status, "worst slot status wins")

	second := summaries[1]
	assert.Equal(t, "E002", second.Location)
	assert.Equal(t, StatusEmpty, second.Status)
}
