package engine

import (
	"slices"
	"strconv"
	"time"

	"licensehub/internal/license/models"
	"licensehub/pkg/platform/dates"
)

// ExpiringSoonWindow is how close to its end date a license starts reporting EXPIRING_SOON.
const ExpiringSoonWindow = 30 * 24 * time.Hour

// Normalize turns a raw record into a canonical License evaluated at now.
// Malformed dates become nil; negative quantities become zero.
func Normalize(raw models.RawLicense, now time.Time) models.License {
	l := models.License{
		ID:                 raw.ID,
		OrganizationID:     raw.OrganizationID,
		ScenarioTitle:      raw.ScenarioTitle,
		Type:               raw.Type,
		Plan:               raw.Plan,
		Quantity:           normalizeQuantity(raw),
		StartAt:            parseTimestamp(raw.StartAt),
		EndAt:              parseTimestamp(raw.EndAt),
		ValidityPeriod:     raw.ValidityPeriod.Ptr(),
		ValidityPeriodUnit: raw.ValidityPeriodUnit,
		CurriculumIDs:      slices.Clone(raw.CurriculumIDs),
		CreatedAt:          parseTimestamp(raw.CreatedAt),
	}
	if l.CurriculumIDs == nil {
		l.CurriculumIDs = []int64{}
	}
	l.Status = deriveStatus(raw.Status, l.EndAt, now)
	l.Duration = durationLabel(raw)
	return l
}

func normalizeQuantity(raw models.RawLicense) *int {
	if raw.Type.Unlimited() || !raw.Quantity.Set {
		return nil
	}
	q := max(raw.Quantity.Value, 0)
	return &q
}

// deriveStatus applies, in order: administrative INACTIVE, past end date,
// end date within the expiring window, otherwise ACTIVE.
func deriveStatus(stored models.Status, endAt *time.Time, now time.Time) models.Status {
	if stored == models.StatusInactive {
		return models.StatusInactive
	}
	if endAt == nil {
		return models.StatusActive
	}
	if now.After(*endAt) {
		return models.StatusExpired
	}
	if endAt.Sub(now) <= ExpiringSoonWindow {
		return models.StatusExpiringSoon
	}
	return models.StatusActive
}

func durationLabel(raw models.RawLicense) string {
	if raw.Type == models.TypeLifetime {
		return models.DurationLifetime
	}
	label := raw.ValidityPeriodUnit.Label()
	if !raw.ValidityPeriod.Set || label == "" {
		return models.DurationUnknown
	}
	return strconv.Itoa(raw.ValidityPeriod.Value) + label
}

func parseTimestamp(s string) *time.Time {
	t, ok := dates.ParseTimestamp(s)
	if !ok {
		return nil
	}
	return &t
}
