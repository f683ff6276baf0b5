package domain

import (
	"slices"
	"strings"
)

// DateLayout is the layout of PricePoint.Date
const DateLayout = "2006-01-02"

// HistoryWindows are the only history lengths, in days, the upstream accepts
var HistoryWindows = []int{30, 90}

// PricePoint is one day of a product's price history
type PricePoint struct {
	Date string   `json:"date" validate:"required,datetime=2006-01-02"`
	Min  float64  `json:"min" validate:"gte=0"`
	Avg  float64  `json:"avg" validate:"gte=0"`
	Max  *float64 `json:"max,omitempty" validate:"omitempty,gte=0"`
}

// PriceHistory is the price history of one product
type PriceHistory struct {
	MinAxis float64      `json:"minAxis"`
	MaxAxis float64      `json:"maxAxis"`
	Data    []PricePoint `json:"data" validate:"required,dive"`
}

// SortByDate orders the points by ascending date. Points sharing a date keep
// their relative order.
func (h *PriceHistory) SortByDate() {
	slices.SortStableFunc(h.Data, func(a, b PricePoint) int {
		return strings.Compare(a.Date, b.Date)
	})
}

// IsValidHistoryWindow reports whether days is an accepted history length
func IsValidHistoryWindow(days int) bool {
	return slices.Contains(HistoryWindows, days)
}
