package engine

import (
	"time"

	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	"licensehub/pkg/platform/dates"
)

// Reconcile computes the outcome of editing oldRaw into newReq against the
// current roster. Only licenses capped on both sides ever lose seats; the
// updated license is returned either way.
func Reconcile(oldRaw, newReq models.RawLicense, roster []models.RosterEntry, now time.Time) models.Decision {
	oldLicense := Normalize(oldRaw, now)
	updated := Normalize(newReq, now)

	decision := models.Decision{
		UpdatedLicense:     updated,
		DeactivatedUserIDs: []id.UserID{},
		DeactivatedUsers:   []models.DeactivatedUser{},
	}
	if oldLicense.Quantity == nil || updated.Quantity == nil {
		return decision
	}

	seats := SelectSeatsToDeactivate(*oldLicense.Quantity, *updated.Quantity, ActiveSeats(roster))
	decision.DeactivatedUserIDs = seats.DeactivatedUserIDs
	decision.DeactivatedUsers = seats.DeactivatedUsers
	decision.Message = seats.Message
	return decision
}

// ActiveSeats converts the active roster entries into seats. A user id that
// appears more than once keeps only its first entry, so no seat is revoked twice.
func ActiveSeats(roster []models.RosterEntry) []models.UserSeat {
	seats := make([]models.UserSeat, 0, len(roster))
	seen := make(map[id.UserID]struct{}, len(roster))
	for _, entry := range roster {
		if !entry.IsActive() {
			continue
		}
		if _, dup := seen[entry.UserID]; dup {
			continue
		}
		seen[entry.UserID] = struct{}{}
		seats = append(seats, ToSeat(entry))
	}
	return seats
}

// ToSeat normalizes one roster entry. The last login keeps its time of day;
// date-only values resolve to midnight UTC. An absent, placeholder or
// unparsable last login becomes nil ("never").
func ToSeat(entry models.RosterEntry) models.UserSeat {
	seat := models.UserSeat{
		UserID: entry.UserID,
		Name:   entry.Name,
		Active: entry.IsActive(),
	}
	if t, ok := dates.ParseTimestamp(entry.LastLogin); ok {
		seat.LastLoginAt = &t
	}
	return seat
}
