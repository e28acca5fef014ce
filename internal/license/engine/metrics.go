package engine

import (
	"math"
	"time"

	"licensehub/internal/license/models"
	"licensehub/pkg/platform/dates"
)

// DaysUntilExpiry returns the calendar days from now until the license ends,
// negative once it has ended. Nil for licenses without an end date.
func DaysUntilExpiry(l models.License, now time.Time) *int {
	if l.EndAt == nil {
		return nil
	}
	d := dates.DaysBetween(now, *l.EndAt)
	return &d
}

// UsagePercentage returns active seats as a rounded percentage of quantity.
// Nil for unlimited or zero-quantity licenses. Values above 100 are kept.
func UsagePercentage(activeCount int, quantity *int) *int {
	if quantity == nil || *quantity == 0 {
		return nil
	}
	p := int(math.Round(100 * float64(activeCount) / float64(*quantity)))
	return &p
}
