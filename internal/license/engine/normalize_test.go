package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"licensehub/internal/license/models"
)

var fixedNow = time.Date(2025, time.June, 15, 9, 30, 0, 0, time.UTC)

func rawUser(qty int) models.RawLicense {
	return models.RawLicense{
		ID:       1,
		Type:     models.TypeUser,
		Plan:     models.PlanPro,
		Status:   models.StatusActive,
		Quantity: models.Int(qty),
		StartAt:  "2025-01-01T00:00:00Z",
	}
}

func daysFromNow(days int) string {
	return fixedNow.AddDate(0, 0, days).Format(time.RFC3339)
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name   string
		status models.Status
		endAt  string
		want   models.Status
	}{
		{"ends in 10 days", models.StatusActive, daysFromNow(10), models.StatusExpiringSoon},
		{"ends in exactly 30 days", models.StatusActive, daysFromNow(30), models.StatusExpiringSoon},
		{"ends in 40 days", models.StatusActive, daysFromNow(40), models.StatusActive},
		{"ended yesterday", models.StatusActive, daysFromNow(-1), models.StatusExpired},
		{"no end date", models.StatusActive, "", models.StatusActive},
		{"unparsable end date", models.StatusActive, "soon", models.StatusActive},
		{"inactive wins over expired", models.StatusInactive, daysFromNow(-1), models.StatusInactive},
		{"inactive wins over expiring", models.StatusInactive, daysFromNow(3), models.StatusInactive},
		{"stored derived status is recomputed", models.StatusExpired, daysFromNow(90), models.StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawUser(10)
			raw.Status = tt.status
			raw.EndAt = tt.endAt
			assert.Equal(t, tt.want, Normalize(raw, fixedNow).Status)
		})
	}
}

func TestNormalizeQuantity(t *testing.T) {
	t.Run("present quantity is kept", func(t *testing.T) {
		l := Normalize(rawUser(25), fixedNow)
		require.NotNil(t, l.Quantity)
		assert.Equal(t, 25, *l.Quantity)
	})

	t.Run("negative quantity is coerced to zero", func(t *testing.T) {
		l := Normalize(rawUser(-4), fixedNow)
		require.NotNil(t, l.Quantity)
		assert.Equal(t, 0, *l.Quantity)
	})

	t.Run("absent quantity is unlimited", func(t *testing.T) {
		raw := rawUser(0)
		raw.Quantity = models.OptionalInt{}
		assert.Nil(t, Normalize(raw, fixedNow).Quantity)
	})

	t.Run("device licenses are unlimited", func(t *testing.T) {
		raw := rawUser(50)
		raw.Type = models.TypeDevice
		assert.Nil(t, Normalize(raw, fixedNow).Quantity)
	})

	t.Run("lifetime licenses keep a stored quantity", func(t *testing.T) {
		raw := rawUser(7)
		raw.Type = models.TypeLifetime
		l := Normalize(raw, fixedNow)
		require.NotNil(t, l.Quantity)
		assert.Equal(t, 7, *l.Quantity)
	})
}

func TestNormalizeDuration(t *testing.T) {
	tests := []struct {
		name   string
		typ    models.Type
		period models.OptionalInt
		unit   models.DurationUnit
		want   string
	}{
		{"months", models.TypeUser, models.Int(6), models.UnitMonth, "6M"},
		{"years", models.TypeDemo, models.Int(1), models.UnitYear, "1Y"},
		{"lifetime ignores period", models.TypeLifetime, models.Int(12), models.UnitMonth, models.DurationLifetime},
		{"missing unit", models.TypeUser, models.Int(6), "", models.DurationUnknown},
		{"missing period", models.TypeUser, models.OptionalInt{}, models.UnitYear, models.DurationUnknown},
		{"unknown unit", models.TypeUser, models.Int(6), "WEEK", models.DurationUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawUser(1)
			raw.Type = tt.typ
			raw.ValidityPeriod = tt.period
			raw.ValidityPeriodUnit = tt.unit
			assert.Equal(t, tt.want, Normalize(raw, fixedNow).Duration)
		})
	}
}

func TestNormalizeDegradesMalformedDates(t *testing.T) {
	raw := rawUser(1)
	raw.StartAt = "not-a-date"
	raw.EndAt = "-"
	raw.CreatedAt = ""

	l := Normalize(raw, fixedNow)

	assert.Nil(t, l.StartAt)
	assert.Nil(t, l.EndAt)
	assert.Nil(t, l.CreatedAt)
	assert.Equal(t, []int64{}, l.CurriculumIDs)
}

func TestNormalizePassesThrough(t *testing.T) {
	raw := rawUser(3)
	raw.OrganizationID = 9
	raw.ScenarioTitle = "Airway management"
	raw.CurriculumIDs = []int64{4, 2}

	l := Normalize(raw, fixedNow)

	assert.EqualValues(t, 1, l.ID)
	assert.EqualValues(t, 9, l.OrganizationID)
	assert.Equal(t, "Airway management", l.ScenarioTitle)
	assert.Equal(t, models.PlanPro, l.Plan)
	assert.Equal(t, []int64{4, 2}, l.CurriculumIDs)
	require.NotNil(t, l.StartAt)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *l.StartAt)

	raw.CurriculumIDs[0] = 99
	assert.Equal(t, int64(4), l.CurriculumIDs[0])
}
