package memory

import (
	"context"
	"sync"

	id "licensehub/pkg/domain"
	audit "licensehub/pkg/platform/audit"
)

// InMemoryStore keeps audit events in process memory, in append order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListByLicense returns the events recorded for one license.
func (s *InMemoryStore) ListByLicense(_ context.Context, licenseID id.LicenseID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.LicenseID == licenseID {
			out = append(out, e)
		}
	}
	return out, nil
}
