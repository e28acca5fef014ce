//go:build integration

package seat_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"licensehub/internal/license/models"
	"licensehub/internal/license/store/license"
	"licensehub/internal/license/store/seat"
	id "licensehub/pkg/domain"
	"licensehub/pkg/platform/sentinel"
	"licensehub/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres  *containers.PostgresContainer
	licenses  *license.PostgresStore
	store     *seat.PostgresStore
	licenseID id.LicenseID
	now       time.Time
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.licenses = license.NewPostgres(s.postgres.DB)
	s.store = seat.NewPostgres(s.postgres.DB)
	s.now = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.postgres.TruncateTables(ctx, "license_seats", "organization_licenses"))

	quantity := 3
	l := &models.OrganizationLicense{
		OrganizationID: 1,
		Type:           models.TypeUser,
		Plan:           models.PlanBasic,
		Quantity:       &quantity,
		StartAt:        s.now,
		Status:         models.StatusActive,
		CreatedAt:      s.now,
		UpdatedAt:      s.now,
	}
	s.Require().NoError(s.licenses.Create(ctx, l))
	s.licenseID = l.ID
}

func (s *PostgresStoreSuite) seat(userID id.UserID, assigned time.Time, lastLogin *time.Time) *models.Seat {
	return &models.Seat{
		LicenseID:   s.licenseID,
		UserID:      userID,
		UserName:    "name-" + string(userID),
		Active:      true,
		LastLoginAt: lastLogin,
		AssignedAt:  assigned,
	}
}

func (s *PostgresStoreSuite) TestAddAndList() {
	ctx := context.Background()
	login := s.now.Add(-48 * time.Hour)

	s.Require().NoError(s.store.Add(ctx, s.seat("b", s.now.Add(time.Minute), nil)))
	s.Require().NoError(s.store.Add(ctx, s.seat("a", s.now, &login)))

	seats, err := s.store.ListByLicense(ctx, s.licenseID)
	s.Require().NoError(err)
	s.Require().Len(seats, 2)
	s.Equal(id.UserID("a"), seats[0].UserID)
	s.Require().NotNil(seats[0].LastLoginAt)
	s.True(login.Equal(*seats[0].LastLoginAt))
	s.Nil(seats[1].LastLoginAt)
}

func (s *PostgresStoreSuite) TestDuplicateSeatConflicts() {
	ctx := context.Background()
	s.Require().NoError(s.store.Add(ctx, s.seat("a", s.now, nil)))

	err := s.store.Add(ctx, s.seat("a", s.now, nil))
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestDeactivate() {
	ctx := context.Background()
	for i, u := range []id.UserID{"a", "b", "c"} {
		s.Require().NoError(s.store.Add(ctx, s.seat(u, s.now.Add(time.Duration(i)*time.Second), nil)))
	}

	n, err := s.store.Deactivate(ctx, s.licenseID, []id.UserID{"a", "c"}, s.now)
	s.Require().NoError(err)
	s.Equal(2, n)

	seats, err := s.store.ListByLicense(ctx, s.licenseID)
	s.Require().NoError(err)
	s.Equal(1, models.CountActive(seats))
	s.Require().NotNil(seats[0].DeactivatedAt)

	n, err = s.store.Deactivate(ctx, s.licenseID, nil, s.now)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *PostgresStoreSuite) TestReactivate() {
	ctx := context.Background()
	s.Require().NoError(s.store.Add(ctx, s.seat("a", s.now, nil)))
	s.Require().NoError(s.store.Add(ctx, s.seat("b", s.now.Add(time.Second), nil)))
	_, err := s.store.Deactivate(ctx, s.licenseID, []id.UserID{"a"}, s.now)
	s.Require().NoError(err)

	s.Require().NoError(s.store.Reactivate(ctx, s.licenseID, "a"))

	seats, err := s.store.ListByLicense(ctx, s.licenseID)
	s.Require().NoError(err)
	s.Equal(2, models.CountActive(seats))
	s.Nil(seats[0].DeactivatedAt)

	s.ErrorIs(s.store.Reactivate(ctx, s.licenseID, "a"), sentinel.ErrConflict)
	s.ErrorIs(s.store.Reactivate(ctx, s.licenseID, "ghost"), sentinel.ErrNotFound)
}
