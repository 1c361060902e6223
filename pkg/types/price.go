package types

import (
	"math"
	"strconv"
)

// PriceRange is an inclusive price interval.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r PriceRange) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// IsFull reports whether r spans all of bounds.
func (r PriceRange) IsFull(bounds PriceRange) bool {
	return r.Min <= bounds.Min && r.Max >= bounds.Max
}

// Clamp moves both ends into bounds. NaN ends fall back to the bound and an
// inverted range is swapped.
func (r PriceRange) Clamp(bounds PriceRange) PriceRange {
	lo, hi := r.Min, r.Max
	if math.IsNaN(lo) {
		lo = bounds.Min
	}
	if math.IsNaN(hi) {
		hi = bounds.Max
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return PriceRange{
		Min: clamp(lo, bounds.Min, bounds.Max),
		Max: clamp(hi, bounds.Min, bounds.Max),
	}
}

func (r PriceRange) String() string {
	return FormatPrice(r.Min) + "-" + FormatPrice(r.Max)
}

// FormatPrice renders a price without trailing zeros.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
