package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	id "licensehub/pkg/domain"
)

// OptionalInt is a leniently decoded integer field. JSON numbers and numeric
// strings set it; null, "", "-" and anything unparsable leave it unset.
type OptionalInt struct {
	Value int
	Set   bool
}

// Int returns an OptionalInt holding n.
func Int(n int) OptionalInt {
	return OptionalInt{Value: n, Set: true}
}

// IntPtr converts a pointer into an OptionalInt.
func IntPtr(n *int) OptionalInt {
	if n == nil {
		return OptionalInt{}
	}
	return Int(*n)
}

// Ptr returns the value as a pointer, nil when unset.
func (o OptionalInt) Ptr() *int {
	if !o.Set {
		return nil
	}
	v := o.Value
	return &v
}

func (o OptionalInt) IsZero() bool {
	return !o.Set
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	*o = OptionalInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	*o = Int(int(f))
	return nil
}

func (o OptionalInt) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.Value)), nil
}

// RawLicense is a license record as the portal stores and transmits it: loose
// strings for dates and optional numbers.
type RawLicense struct {
	ID                 id.LicenseID      `json:"organizationLicenseId"`
	OrganizationID     id.OrganizationID `json:"organizationId,omitempty"`
	ScenarioTitle      string            `json:"scenarioTitle,omitempty"`
	Type               Type              `json:"type"`
	Quantity           OptionalInt       `json:"quantity,omitzero"`
	StartAt            string            `json:"startAt,omitempty"`
	EndAt              string            `json:"endAt,omitempty"`
	Status             Status            `json:"status"`
	Plan               Plan              `json:"plan"`
	ValidityPeriod     OptionalInt       `json:"validityPeriod,omitzero"`
	ValidityPeriodUnit DurationUnit      `json:"validityPeriodUnit,omitempty"`
	CreatedAt          string            `json:"createdAt,omitempty"`
	CurriculumIDs      []int64           `json:"curriculumIdList,omitempty"`
}

// RosterEntry is one user seat as reported by the roster source.
type RosterEntry struct {
	UserID    id.UserID `json:"userId"`
	Name      string    `json:"name,omitempty"`
	Status    string    `json:"status"`
	LastLogin string    `json:"lastLogin,omitempty"`
}

// IsActive reports whether the entry holds an active seat.
func (e RosterEntry) IsActive() bool {
	return strings.EqualFold(strings.TrimSpace(e.Status), SeatStatusActive)
}
