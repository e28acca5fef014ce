package models

import (
	"time"

	id "licensehub/pkg/domain"
)

// License is the canonical, normalized view of a license record.
// Quantity nil means unlimited; EndAt nil means the license never expires.
type License struct {
	ID                 id.LicenseID      `json:"organizationLicenseId"`
	OrganizationID     id.OrganizationID `json:"organizationId,omitempty"`
	ScenarioTitle      string            `json:"scenarioTitle,omitempty"`
	Type               Type              `json:"type"`
	Plan               Plan              `json:"plan"`
	Quantity           *int              `json:"quantity"`
	StartAt            *time.Time        `json:"startAt"`
	EndAt              *time.Time        `json:"endAt"`
	Status             Status            `json:"status"`
	Duration           string            `json:"duration"`
	ValidityPeriod     *int              `json:"validityPeriod,omitempty"`
	ValidityPeriodUnit DurationUnit      `json:"validityPeriodUnit,omitempty"`
	CurriculumIDs      []int64           `json:"curriculumIdList"`
	CreatedAt          *time.Time        `json:"createdAt,omitempty"`
}

// Unlimited reports whether the license has no seat cap.
func (l License) Unlimited() bool {
	return l.Quantity == nil
}

// UserSeat is a roster entry after normalization.
type UserSeat struct {
	UserID      id.UserID  `json:"userId"`
	Name        string     `json:"name,omitempty"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

// DisplayName falls back to the user id when no name is known.
func (s UserSeat) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.UserID.String()
}

// DeactivatedUser identifies one revoked seat in a decision.
type DeactivatedUser struct {
	ID   id.UserID `json:"id"`
	Name string    `json:"name"`
}

// SeatDecision is the outcome of seat selection alone.
type SeatDecision struct {
	DeactivatedUserIDs []id.UserID       `json:"deactivatedUserIds"`
	DeactivatedUsers   []DeactivatedUser `json:"deactivatedUsers"`
	Message            string            `json:"message"`
}

// Decision is the full reconciliation outcome for one license edit.
type Decision struct {
	UpdatedLicense     License           `json:"updatedLicense"`
	DeactivatedUserIDs []id.UserID       `json:"deactivatedUserIds"`
	DeactivatedUsers   []DeactivatedUser `json:"deactivatedUsers"`
	Message            string            `json:"message"`
}

// HasDeactivations reports whether any seat is revoked by the decision.
func (d Decision) HasDeactivations() bool {
	return len(d.DeactivatedUserIDs) > 0
}
