package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "licensehub/pkg/domain-errors"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newLicense(t *testing.T) *OrganizationLicense {
	t.Helper()
	terms := validTerms()
	require.NoError(t, terms.Validate())
	l, err := NewOrganizationLicense(9, "Trauma triage", terms, now)
	require.NoError(t, err)
	return l
}

func TestNewOrganizationLicense(t *testing.T) {
	l := newLicense(t)
	assert.Equal(t, StatusActive, l.Status)
	assert.Equal(t, 10, *l.Quantity)
	assert.Equal(t, now, l.CreatedAt)

	terms := validTerms()
	require.NoError(t, terms.Validate())
	_, err := NewOrganizationLicense(0, "x", terms, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestStatusTransitions(t *testing.T) {
	l := newLicense(t)

	require.NoError(t, l.CanDeactivate())
	l.ApplyDeactivation(now.Add(time.Minute))
	assert.Equal(t, StatusInactive, l.Status)
	assert.True(t, dErrors.HasCode(l.CanDeactivate(), dErrors.CodeInvariantViolation))

	require.NoError(t, l.CanReactivate())
	l.ApplyReactivation(now.Add(2 * time.Minute))
	assert.Equal(t, StatusActive, l.Status)
	assert.True(t, dErrors.HasCode(l.CanReactivate(), dErrors.CodeInvariantViolation))
}

func TestRawRendering(t *testing.T) {
	l := newLicense(t)
	l.ID = 4

	raw := l.Raw()
	assert.EqualValues(t, 4, raw.ID)
	assert.Equal(t, Int(10), raw.Quantity)
	assert.Equal(t, "2025-01-01T00:00:00Z", raw.StartAt)
	assert.Equal(t, "2025-12-31T00:00:00Z", raw.EndAt)

	terms := validTerms()
	terms.Quantity = intPtr(4)
	require.NoError(t, terms.Validate())
	next, err := l.RawWithTerms(terms)
	require.NoError(t, err)
	assert.Equal(t, Int(4), next.Quantity)
	assert.Equal(t, 10, *l.Quantity, "receiver must not change")
}

func TestSeatRosterEntry(t *testing.T) {
	login := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	seats := []*Seat{
		{UserID: "1", UserName: "Kim", Active: true, LastLoginAt: &login},
		{UserID: "2", Active: false},
	}

	roster := Roster(seats)
	assert.Equal(t, RosterEntry{UserID: "1", Name: "Kim", Status: SeatStatusActive, LastLogin: "2025-05-01T08:00:00Z"}, roster[0])
	assert.Equal(t, RosterEntry{UserID: "2", Status: SeatStatusInactive}, roster[1])
	assert.Equal(t, 1, CountActive(seats))
}

func TestOptionalIntUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  OptionalInt
	}{
		{`5`, Int(5)},
		{`-2`, Int(-2)},
		{`"12"`, Int(12)},
		{`null`, OptionalInt{}},
		{`""`, OptionalInt{}},
		{`"-"`, OptionalInt{}},
		{`"unlimited"`, OptionalInt{}},
		{`1e12`, OptionalInt{}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got OptionalInt
			require.NoError(t, json.Unmarshal([]byte(tt.input), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRawLicenseJSON(t *testing.T) {
	var raw RawLicense
	require.NoError(t, json.Unmarshal([]byte(`{
		"organizationLicenseId": 3,
		"type": "USER",
		"quantity": "7",
		"status": "ACTIVE",
		"plan": "PRO",
		"endAt": "2025-09-01"
	}`), &raw))
	assert.Equal(t, Int(7), raw.Quantity)
	assert.False(t, raw.ValidityPeriod.Set)

	out, err := json.Marshal(raw)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "validityPeriod")
	assert.Contains(t, string(out), `"quantity":7`)
}
