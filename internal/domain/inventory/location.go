package inventory

import (
	"sort"
	"strings"
)

// LocationKey is a total-ordering key for warehouse location codes. The
// primary component is the first contiguous digit run in the code; codes
// without digits sort after every conforming code, keeping their relative
// order.
type LocationKey struct {
	Primary   int
	Secondary string
	Conforms  bool
}

// NewLocationKey derives the ordering key for a location code
func NewLocationKey(code string) LocationKey {
	code = strings.TrimSpace(code)
	start := -1
	end := len(code)
	for i, r := range code {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
		} else if start >= 0 {
			end = i
			break
		}
	}
	if start < 0 {
		return LocationKey{Conforms: false}
	}

	primary := 0
	for _, r := range code[start:end] {
		primary = primary*10 + int(r-'0')
	}
	return LocationKey{
		Primary:   primary,
		Secondary: code[end:],
		Conforms:  true,
	}
}

// Less reports whether k orders before other
func (k LocationKey) Less(other LocationKey) bool {
	if k.Conforms != other.Conforms {
		return k.Conforms
	}
	if !k.Conforms {
		return false
	}
	if k.Primary != other.Primary {
		return k.Primary < other.Primary
	}
	return k.Secondary < other.Secondary
}

// CompareLocationCodes orders two raw location codes; negative means a
// sorts before b.
func CompareLocationCodes(a, b string) int {
	ka, kb := NewLocationKey(a), NewLocationKey(b)
	switch {
	case ka.Less(kb):
		return -1
	case kb.Less(ka):
		return 1
	default:
		return 0
	}
}

// SortByLocation sorts values in warehouse walking order using the location
// code extracted by loc. The sort is stable so non-conforming codes keep
// their relative order at the end.
func SortByLocation[T any](values []T, loc func(T) string) {
	sort.SliceStable(values, func(i, j int) bool {
		return NewLocationKey(loc(values[i])).Less(NewLocationKey(loc(values[j])))
	})
}
