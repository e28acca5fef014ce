// Package license stores organization license records.
package license

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	"licensehub/pkg/platform/sentinel"
)

// InMemory is a map-backed license store. Execute holds the store lock for
// the whole validate-then-mutate step.
type InMemory struct {
	mu       sync.RWMutex
	nextID   id.LicenseID
	licenses map[id.LicenseID]*models.OrganizationLicense
}

func NewInMemory() *InMemory {
	return &InMemory{licenses: make(map[id.LicenseID]*models.OrganizationLicense)}
}

// Create assigns the next ID and stores a copy of l.
func (s *InMemory) Create(_ context.Context, l *models.OrganizationLicense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	l.ID = s.nextID
	s.licenses[l.ID] = clone(l)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, licenseID id.LicenseID) (*models.OrganizationLicense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.licenses[licenseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(l), nil
}

// FindByIDForUpdate is FindByID; callers serialize through the service transaction.
func (s *InMemory) FindByIDForUpdate(ctx context.Context, licenseID id.LicenseID) (*models.OrganizationLicense, error) {
	return s.FindByID(ctx, licenseID)
}

// ListByOrganization returns the organization's licenses ordered by ID.
func (s *InMemory) ListByOrganization(_ context.Context, orgID id.OrganizationID) ([]*models.OrganizationLicense, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.OrganizationLicense
	for _, l := range s.licenses {
		if l.OrganizationID == orgID {
			out = append(out, clone(l))
		}
	}
	slices.SortFunc(out, func(a, b *models.OrganizationLicense) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (s *InMemory) Update(_ context.Context, l *models.OrganizationLicense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.licenses[l.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.licenses[l.ID] = clone(l)
	return nil
}

// Execute loads the license, runs validate, and applies mutate only when
// validate succeeds. It returns the stored result.
func (s *InMemory) Execute(_ context.Context, licenseID id.LicenseID, validate func(*models.OrganizationLicense) error, mutate func(*models.OrganizationLicense)) (*models.OrganizationLicense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.licenses[licenseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := clone(current)
	if err := validate(working); err != nil {
		return nil, err
	}
	mutate(working)
	s.licenses[licenseID] = working
	return clone(working), nil
}

func clone(l *models.OrganizationLicense) *models.OrganizationLicense {
	c := *l
	c.CurriculumIDs = slices.Clone(l.CurriculumIDs)
	if l.Quantity != nil {
		q := *l.Quantity
		c.Quantity = &q
	}
	if l.EndAt != nil {
		e := *l.EndAt
		c.EndAt = &e
	}
	if l.ValidityPeriod != nil {
		v := *l.ValidityPeriod
		c.ValidityPeriod = &v
	}
	return &c
}
