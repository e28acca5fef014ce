package engine

import (
	"fmt"
	"slices"
	"strings"

	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
)

// SelectSeatsToDeactivate picks the seats to revoke when quantity drops from
// oldQty to newQty: the least recently used first, never-logged-in seats before
// all others, ties kept in input order. eligible is not modified.
func SelectSeatsToDeactivate(oldQty, newQty int, eligible []models.UserSeat) models.SeatDecision {
	decision := models.SeatDecision{
		DeactivatedUserIDs: []id.UserID{},
		DeactivatedUsers:   []models.DeactivatedUser{},
	}
	if newQty >= oldQty || len(eligible) == 0 {
		return decision
	}
	decrease := oldQty - newQty

	ordered := slices.Clone(eligible)
	slices.SortStableFunc(ordered, compareLastLogin)

	for _, seat := range ordered[:min(decrease, len(ordered))] {
		decision.DeactivatedUserIDs = append(decision.DeactivatedUserIDs, seat.UserID)
		decision.DeactivatedUsers = append(decision.DeactivatedUsers, models.DeactivatedUser{
			ID:   seat.UserID,
			Name: seat.Name,
		})
	}
	decision.Message = deactivationMessage(decision.DeactivatedUsers)
	return decision
}

// compareLastLogin orders seats by last login ascending with nil first.
func compareLastLogin(a, b models.UserSeat) int {
	switch {
	case a.LastLoginAt == nil && b.LastLoginAt == nil:
		return 0
	case a.LastLoginAt == nil:
		return -1
	case b.LastLoginAt == nil:
		return 1
	}
	return a.LastLoginAt.Compare(*b.LastLoginAt)
}

func deactivationMessage(users []models.DeactivatedUser) string {
	if len(users) == 0 {
		return ""
	}
	names := make([]string, 0, len(users))
	for _, u := range users {
		seat := models.UserSeat{UserID: u.ID, Name: u.Name}
		names = append(names, seat.DisplayName())
	}
	noun := "users were"
	if len(users) == 1 {
		noun = "user was"
	}
	return fmt.Sprintf(
		"%d %s deactivated due to license quantity decrease. Deactivated users: %s. (deactivated in order of oldest last login)",
		len(users), noun, strings.Join(names, ", "),
	)
}
