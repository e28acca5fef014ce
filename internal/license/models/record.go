package models

import (
	"slices"
	"time"

	id "licensehub/pkg/domain"
	dErrors "licensehub/pkg/domain-errors"
)

// OrganizationLicense is the stored license aggregate.
//
// Invariants:
//   - Status is ACTIVE or INACTIVE; expiry is derived, never stored
//   - DEVICE licenses have no quantity
//   - LIFETIME licenses have no end date
//   - EndAt, when set, is not before StartAt
type OrganizationLicense struct {
	ID                 id.LicenseID
	OrganizationID     id.OrganizationID
	ScenarioTitle      string
	Type               Type
	Plan               Plan
	Quantity           *int
	StartAt            time.Time
	EndAt              *time.Time
	Status             Status
	ValidityPeriod     *int
	ValidityPeriodUnit DurationUnit
	CurriculumIDs      []int64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewOrganizationLicense builds an ACTIVE license from validated terms.
func NewOrganizationLicense(orgID id.OrganizationID, scenarioTitle string, terms LicenseTerms, now time.Time) (*OrganizationLicense, error) {
	if orgID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "organization id is required")
	}
	l := &OrganizationLicense{
		OrganizationID: orgID,
		ScenarioTitle:  scenarioTitle,
		Status:         StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := l.ApplyTerms(terms, now); err != nil {
		return nil, err
	}
	return l, nil
}

// ApplyTerms overwrites the commercial terms. Call terms.Validate first.
func (l *OrganizationLicense) ApplyTerms(terms LicenseTerms, now time.Time) error {
	if !terms.validated {
		return dErrors.New(dErrors.CodeInvariantViolation, "license terms were not validated")
	}
	l.Type = terms.Type
	l.Plan = terms.Plan
	l.Quantity = terms.Quantity
	l.StartAt = terms.startAt
	l.EndAt = terms.endAt
	l.ValidityPeriod = terms.ValidityPeriod
	l.ValidityPeriodUnit = terms.ValidityPeriodUnit
	l.CurriculumIDs = slices.Clone(terms.CurriculumIDs)
	l.UpdatedAt = now
	return nil
}

// CanDeactivate checks the administrative ACTIVE -> INACTIVE override.
func (l *OrganizationLicense) CanDeactivate() error {
	if !l.Status.CanTransitionTo(StatusInactive) {
		return dErrors.New(dErrors.CodeInvariantViolation, "license is already inactive")
	}
	return nil
}

// ApplyDeactivation marks the license INACTIVE. Call CanDeactivate first.
func (l *OrganizationLicense) ApplyDeactivation(now time.Time) {
	l.Status = StatusInactive
	l.UpdatedAt = now
}

// CanReactivate checks the administrative INACTIVE -> ACTIVE override.
func (l *OrganizationLicense) CanReactivate() error {
	if !l.Status.CanTransitionTo(StatusActive) {
		return dErrors.New(dErrors.CodeInvariantViolation, "license is already active")
	}
	return nil
}

// ApplyReactivation marks the license ACTIVE. Call CanReactivate first.
func (l *OrganizationLicense) ApplyReactivation(now time.Time) {
	l.Status = StatusActive
	l.UpdatedAt = now
}

// Raw renders the record in the loose wire shape the engine consumes.
func (l *OrganizationLicense) Raw() RawLicense {
	raw := RawLicense{
		ID:                 l.ID,
		OrganizationID:     l.OrganizationID,
		ScenarioTitle:      l.ScenarioTitle,
		Type:               l.Type,
		Quantity:           IntPtr(l.Quantity),
		StartAt:            formatTimestamp(&l.StartAt),
		EndAt:              formatTimestamp(l.EndAt),
		Status:             l.Status,
		Plan:               l.Plan,
		ValidityPeriod:     IntPtr(l.ValidityPeriod),
		ValidityPeriodUnit: l.ValidityPeriodUnit,
		CreatedAt:          formatTimestamp(&l.CreatedAt),
		CurriculumIDs:      slices.Clone(l.CurriculumIDs),
	}
	return raw
}

// RawWithTerms is Raw with the requested terms applied, without mutating l.
func (l *OrganizationLicense) RawWithTerms(terms LicenseTerms) (RawLicense, error) {
	next := *l
	if err := next.ApplyTerms(terms, l.UpdatedAt); err != nil {
		return RawLicense{}, err
	}
	return next.Raw(), nil
}

func formatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// Seat is a stored user seat on a license.
type Seat struct {
	LicenseID     id.LicenseID `json:"licenseId"`
	UserID        id.UserID    `json:"userId"`
	UserName      string       `json:"name"`
	Active        bool         `json:"active"`
	LastLoginAt   *time.Time   `json:"lastLoginAt"`
	AssignedAt    time.Time    `json:"assignedAt"`
	DeactivatedAt *time.Time   `json:"deactivatedAt,omitempty"`
}

// RosterEntry renders the seat as a roster entry.
func (s Seat) RosterEntry() RosterEntry {
	status := SeatStatusInactive
	if s.Active {
		status = SeatStatusActive
	}
	return RosterEntry{
		UserID:    s.UserID,
		Name:      s.UserName,
		Status:    status,
		LastLogin: formatTimestamp(s.LastLoginAt),
	}
}

// Roster renders seats as roster entries, preserving order.
func Roster(seats []*Seat) []RosterEntry {
	out := make([]RosterEntry, 0, len(seats))
	for _, s := range seats {
		out = append(out, s.RosterEntry())
	}
	return out
}

// CountActive returns the number of active seats.
func CountActive(seats []*Seat) int {
	n := 0
	for _, s := range seats {
		if s.Active {
			n++
		}
	}
	return n
}
