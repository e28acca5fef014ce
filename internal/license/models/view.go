package models

// LicenseView is the normalized license with its usage figures for "now".
type LicenseView struct {
	License
	DaysUntilExpiry *int `json:"daysUntilExpiry"`
	ActiveSeats     int  `json:"activeSeats"`
	UsagePercentage *int `json:"usagePercentage"`
}

// Snapshot is the time-independent input of a LicenseView. It is what the
// view cache stores, so derived status never goes stale inside the TTL.
type Snapshot struct {
	License     RawLicense `json:"license"`
	ActiveSeats int        `json:"activeSeats"`
}
