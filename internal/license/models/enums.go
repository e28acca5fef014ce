package models

import "time"

// Type is the commercial license kind.
type Type string

const (
	TypeUser     Type = "USER"
	TypeDevice   Type = "DEVICE"
	TypeLifetime Type = "LIFETIME"
	TypeDemo     Type = "DEMO"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeUser, TypeDevice, TypeLifetime, TypeDemo:
		return true
	}
	return false
}

// Unlimited reports whether the type carries no seat cap at all.
//
// DEVICE licenses are unlimited even when a stored record carries a quantity:
// the type rule takes precedence over passing the quantity through, so a
// DEVICE quantity is never shown as a cap and editing it never revokes seats.
// Every other type, LIFETIME included, keeps whatever quantity it has.
func (t Type) Unlimited() bool {
	return t == TypeDevice
}

// Plan is passed through untouched.
type Plan string

const (
	PlanBasic Plan = "BASIC"
	PlanPro   Plan = "PRO"
)

func (p Plan) IsValid() bool {
	return p == PlanBasic || p == PlanPro
}

// Status is the life-cycle status of a license. Only ACTIVE and INACTIVE are
// ever stored; EXPIRED and EXPIRING_SOON are derived against a clock.
type Status string

const (
	StatusActive       Status = "ACTIVE"
	StatusInactive     Status = "INACTIVE"
	StatusExpired      Status = "EXPIRED"
	StatusExpiringSoon Status = "EXPIRING_SOON"
)

// CanTransitionTo covers the administrative override only.
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusActive:
		return target == StatusInactive
	case StatusInactive:
		return target == StatusActive
	}
	return false
}

// DurationUnit is the unit of a validity period.
type DurationUnit string

const (
	UnitMonth DurationUnit = "MONTH"
	UnitYear  DurationUnit = "YEAR"
)

// Label returns the short duration suffix, or "" for an unknown unit.
func (u DurationUnit) Label() string {
	switch u {
	case UnitMonth:
		return "M"
	case UnitYear:
		return "Y"
	}
	return ""
}

// AddTo advances t by n units.
func (u DurationUnit) AddTo(t time.Time, n int) time.Time {
	switch u {
	case UnitYear:
		return t.AddDate(n, 0, 0)
	default:
		return t.AddDate(0, n, 0)
	}
}

// Duration display markers.
const (
	DurationLifetime = "lifetime"
	DurationUnknown  = "-"
)

// Seat roster status values as they appear in roster payloads.
const (
	SeatStatusActive   = "active"
	SeatStatusInactive = "inactive"
)
