// Package seat stores user seats assigned to licenses.
package seat

import (
	"context"
	"slices"
	"sync"
	"time"

	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	"licensehub/pkg/platform/sentinel"
)

// InMemory keeps seats per license in assignment order.
type InMemory struct {
	mu    sync.RWMutex
	seats map[id.LicenseID][]*models.Seat
}

func NewInMemory() *InMemory {
	return &InMemory{seats: make(map[id.LicenseID][]*models.Seat)}
}

// Add assigns a seat. A second seat for the same user on the same license is
// a conflict.
func (s *InMemory) Add(_ context.Context, seat *models.Seat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.seats[seat.LicenseID] {
		if existing.UserID == seat.UserID {
			return sentinel.ErrConflict
		}
	}
	s.seats[seat.LicenseID] = append(s.seats[seat.LicenseID], cloneSeat(seat))
	return nil
}

// ListByLicense returns the roster in assignment order.
func (s *InMemory) ListByLicense(_ context.Context, licenseID id.LicenseID) ([]*models.Seat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored := s.seats[licenseID]
	out := make([]*models.Seat, 0, len(stored))
	for _, seat := range stored {
		out = append(out, cloneSeat(seat))
	}
	return out, nil
}

// Deactivate flips the listed active seats to inactive and reports how many
// changed. Unknown or already inactive users are skipped.
func (s *InMemory) Deactivate(_ context.Context, licenseID id.LicenseID, userIDs []id.UserID, at time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, seat := range s.seats[licenseID] {
		if !seat.Active || !slices.Contains(userIDs, seat.UserID) {
			continue
		}
		seat.Active = false
		deactivatedAt := at
		seat.DeactivatedAt = &deactivatedAt
		n++
	}
	return n, nil
}

// Reactivate returns an inactive seat to active. A missing seat is
// sentinel.ErrNotFound and an already active one sentinel.ErrConflict.
func (s *InMemory) Reactivate(_ context.Context, licenseID id.LicenseID, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, seat := range s.seats[licenseID] {
		if seat.UserID != userID {
			continue
		}
		if seat.Active {
			return sentinel.ErrConflict
		}
		seat.Active = true
		seat.DeactivatedAt = nil
		return nil
	}
	return sentinel.ErrNotFound
}

func cloneSeat(seat *models.Seat) *models.Seat {
	c := *seat
	if seat.LastLoginAt != nil {
		t := *seat.LastLoginAt
		c.LastLoginAt = &t
	}
	if seat.DeactivatedAt != nil {
		t := *seat.DeactivatedAt
		c.DeactivatedAt = &t
	}
	return &c
}
