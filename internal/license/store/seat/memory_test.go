package seat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	"licensehub/pkg/platform/sentinel"
)

type SeatStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *SeatStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 15, 9, 0, 0, 0, time.UTC)
}

func TestSeatStoreSuite(t *testing.T) {
	suite.Run(t, new(SeatStoreSuite))
}

func (s *SeatStoreSuite) add(licenseID id.LicenseID, userID id.UserID) {
	s.Require().NoError(s.store.Add(s.ctx, &models.Seat{
		LicenseID:  licenseID,
		UserID:     userID,
		UserName:   "user " + string(userID),
		Active:     true,
		AssignedAt: s.now,
	}))
}

func (s *SeatStoreSuite) TestAdd() {
	s.Run("keeps assignment order", func() {
		s.add(1, "c")
		s.add(1, "a")
		s.add(1, "b")

		seats, err := s.store.ListByLicense(s.ctx, 1)
		s.Require().NoError(err)
		s.Require().Len(seats, 3)
		s.Equal(id.UserID("c"), seats[0].UserID)
		s.Equal(id.UserID("b"), seats[2].UserID)
	})

	s.Run("duplicate user on same license conflicts", func() {
		s.add(2, "a")
		err := s.store.Add(s.ctx, &models.Seat{LicenseID: 2, UserID: "a", Active: true})
		s.ErrorIs(err, sentinel.ErrConflict)
	})

	s.Run("same user on another license is allowed", func() {
		s.add(3, "a")
		s.add(4, "a")
	})
}

func (s *SeatStoreSuite) TestListByLicenseEmpty() {
	seats, err := s.store.ListByLicense(s.ctx, 99)
	s.Require().NoError(err)
	s.Empty(seats)
}

func (s *SeatStoreSuite) TestDeactivate() {
	s.add(1, "a")
	s.add(1, "b")
	s.add(1, "c")

	n, err := s.store.Deactivate(s.ctx, 1, []id.UserID{"a", "c", "ghost"}, s.now)
	s.Require().NoError(err)
	s.Equal(2, n)

	seats, err := s.store.ListByLicense(s.ctx, 1)
	s.Require().NoError(err)
	s.Equal(1, models.CountActive(seats))
	s.False(seats[0].Active)
	s.Require().NotNil(seats[0].DeactivatedAt)
	s.Equal(s.now, *seats[0].DeactivatedAt)
	s.True(seats[1].Active)

	again, err := s.store.Deactivate(s.ctx, 1, []id.UserID{"a"}, s.now)
	s.Require().NoError(err)
	s.Zero(again)
}

func (s *SeatStoreSuite) TestReactivate() {
	s.add(1, "a")
	s.add(1, "b")
	_, err := s.store.Deactivate(s.ctx, 1, []id.UserID{"a"}, s.now)
	s.Require().NoError(err)

	s.Run("inactive seat becomes active again", func() {
		s.Require().NoError(s.store.Reactivate(s.ctx, 1, "a"))

		seats, err := s.store.ListByLicense(s.ctx, 1)
		s.Require().NoError(err)
		s.True(seats[0].Active)
		s.Nil(seats[0].DeactivatedAt)
		s.Equal(2, models.CountActive(seats))
	})

	s.Run("active seat conflicts", func() {
		s.ErrorIs(s.store.Reactivate(s.ctx, 1, "b"), sentinel.ErrConflict)
	})

	s.Run("unknown seat is not found", func() {
		s.ErrorIs(s.store.Reactivate(s.ctx, 1, "ghost"), sentinel.ErrNotFound)
		s.ErrorIs(s.store.Reactivate(s.ctx, 2, "a"), sentinel.ErrNotFound)
	})
}
