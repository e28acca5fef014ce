package engine

import (
	"time"

	"licensehub/internal/license/models"
)

// Describe normalizes the snapshot and attaches the usage figures for now.
func Describe(snap models.Snapshot, now time.Time) models.LicenseView {
	l := Normalize(snap.License, now)
	return models.LicenseView{
		License:         l,
		DaysUntilExpiry: DaysUntilExpiry(l, now),
		ActiveSeats:     snap.ActiveSeats,
		UsagePercentage: UsagePercentage(snap.ActiveSeats, l.Quantity),
	}
}
