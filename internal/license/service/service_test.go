package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"licensehub/internal/license/models"
	"licensehub/internal/license/service/mocks"
	licensestore "licensehub/internal/license/store/license"
	seatstore "licensehub/internal/license/store/seat"
	id "licensehub/pkg/domain"
	dErrors "licensehub/pkg/domain-errors"
	audit "licensehub/pkg/platform/audit"
	auditmemory "licensehub/pkg/platform/audit/store/memory"
	"licensehub/pkg/platform/sentinel"
	"licensehub/pkg/requestcontext"
)

var testNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	licenses *licensestore.InMemory
	seats    *seatstore.InMemory
	audit    *mocks.MockAuditPublisher
	cache    *mocks.MockViewCache
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.licenses = licensestore.NewInMemory()
	s.seats = seatstore.NewInMemory()
	s.audit = mocks.NewMockAuditPublisher(ctrl)
	s.cache = mocks.NewMockViewCache(ctrl)
	s.service = New(s.licenses, s.seats,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.audit),
		WithCache(s.cache),
	)
	s.ctx = s.actorCtx(requestcontext.Actor{Subject: "sales-1", Role: requestcontext.RoleSalesAdmin})
}

func (s *ServiceSuite) actorCtx(actor requestcontext.Actor) context.Context {
	ctx := requestcontext.WithActor(context.Background(), actor)
	ctx = requestcontext.WithRequestID(ctx, "req-1")
	return requestcontext.WithTime(ctx, testNow)
}

func terms(t models.Type, quantity *int, end string) models.LicenseTerms {
	return models.LicenseTerms{
		Type:      t,
		Plan:      models.PlanPro,
		Quantity:  quantity,
		StartDate: "2025-01-01",
		EndDate:   end,
	}
}

func qty(n int) *int { return &n }

// seedLicense stores a USER license for org 10 with the given seats.
func (s *ServiceSuite) seedLicense(quantity int, seats ...*models.Seat) *models.OrganizationLicense {
	t := terms(models.TypeUser, qty(quantity), "2026-01-01")
	s.Require().NoError(t.Validate())
	record, err := models.NewOrganizationLicense(10, "Airway Management", t, testNow.AddDate(0, -1, 0))
	s.Require().NoError(err)
	s.Require().NoError(s.licenses.Create(context.Background(), record))
	for _, seat := range seats {
		seat.LicenseID = record.ID
		s.Require().NoError(s.seats.Add(context.Background(), seat))
	}
	return record
}

func seat(userID, name string, lastLogin *time.Time) *models.Seat {
	return &models.Seat{UserID: id.UserID(userID), UserName: name, Active: true, LastLoginAt: lastLogin, AssignedAt: testNow.AddDate(0, -1, 0)}
}

func at(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 8, 0, 0, 0, time.UTC)
	return &t
}

func (s *ServiceSuite) expectEvents(actions ...audit.AuditEvent) *[]audit.Event {
	var got []audit.Event
	for range actions {
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
			got = append(got, e)
			return nil
		})
	}
	t := s.T()
	t.Cleanup(func() {
		if t.Failed() {
			return
		}
		require.Len(t, got, len(actions))
		for i, action := range actions {
			assert.Equal(t, action, got[i].Action)
		}
	})
	return &got
}

func (s *ServiceSuite) TestCreateLicense() {
	s.Run("stores an active license and audits it", func() {
		events := s.expectEvents(audit.EventLicenseCreated)
		req := &models.CreateLicenseRequest{ScenarioTitle: "Sepsis", LicenseTerms: terms(models.TypeUser, qty(25), "2025-07-01")}

		view, err := s.service.CreateLicense(s.ctx, 10, req)
		s.Require().NoError(err)
		s.NotZero(view.ID)
		s.Equal(models.StatusExpiringSoon, view.Status)
		s.Equal(0, view.ActiveSeats)
		s.Equal(0, *view.UsagePercentage)
		s.Equal("sales-1", (*events)[0].ActorID)
		s.Equal("req-1", (*events)[0].RequestID)

		stored, err := s.licenses.FindByID(context.Background(), view.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusActive, stored.Status)
	})

	s.Run("device licenses drop quantity", func() {
		s.expectEvents(audit.EventLicenseCreated)
		req := &models.CreateLicenseRequest{ScenarioTitle: "ICU", LicenseTerms: terms(models.TypeDevice, qty(5), "")}

		view, err := s.service.CreateLicense(s.ctx, 10, req)
		s.Require().NoError(err)
		s.Nil(view.Quantity)
		s.Nil(view.UsagePercentage)
	})

	s.Run("organization admins are limited to their organization", func() {
		ctx := s.actorCtx(requestcontext.Actor{Role: requestcontext.RoleOrganizationAdmin, OrganizationID: 11})
		req := &models.CreateLicenseRequest{ScenarioTitle: "Sepsis", LicenseTerms: terms(models.TypeUser, qty(1), "")}

		_, err := s.service.CreateLicense(ctx, 10, req)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("user licenses require a quantity", func() {
		req := &models.CreateLicenseRequest{ScenarioTitle: "Sepsis", LicenseTerms: terms(models.TypeUser, nil, "")}

		_, err := s.service.CreateLicense(s.ctx, 10, req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("audit failure fails the operation", func() {
		s.audit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(errors.New("outbox down"))
		req := &models.CreateLicenseRequest{ScenarioTitle: "Sepsis", LicenseTerms: terms(models.TypeUser, qty(1), "")}

		_, err := s.service.CreateLicense(s.ctx, 10, req)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestGetLicense() {
	record := s.seedLicense(4,
		seat("u1", "Ana", at(2025, 6, 1)),
		seat("u2", "Ben", nil),
		seat("u3", "Cy", at(2025, 5, 1)),
	)

	s.Run("cache miss loads and fills the cache", func() {
		s.cache.EXPECT().Get(gomock.Any(), record.ID).Return(nil, sentinel.ErrNotFound)
		s.cache.EXPECT().Set(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, snap models.Snapshot) error {
			s.Equal(3, snap.ActiveSeats)
			return nil
		})

		view, err := s.service.GetLicense(s.ctx, record.ID)
		s.Require().NoError(err)
		s.Equal(3, view.ActiveSeats)
		s.Equal(75, *view.UsagePercentage)
		s.Equal(200, *view.DaysUntilExpiry)
		s.Equal(models.StatusActive, view.Status)
		s.Equal("-", view.Duration)
	})

	s.Run("cache hit skips the stores", func() {
		s.cache.EXPECT().Get(gomock.Any(), id.LicenseID(77)).Return(&models.Snapshot{
			License:     models.RawLicense{ID: 77, OrganizationID: 10, Type: models.TypeUser, Quantity: models.Int(10), Status: models.StatusActive},
			ActiveSeats: 5,
		}, nil)

		view, err := s.service.GetLicense(s.ctx, 77)
		s.Require().NoError(err)
		s.Equal(50, *view.UsagePercentage)
	})

	s.Run("unavailable cache falls back to the stores", func() {
		s.cache.EXPECT().Get(gomock.Any(), record.ID).Return(nil, sentinel.ErrUnavailable)
		s.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(sentinel.ErrUnavailable)

		view, err := s.service.GetLicense(s.ctx, record.ID)
		s.Require().NoError(err)
		s.Equal(3, view.ActiveSeats)
	})

	s.Run("unknown license is not found", func() {
		s.cache.EXPECT().Get(gomock.Any(), id.LicenseID(404)).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.GetLicense(s.ctx, 404)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("other organization is forbidden", func() {
		s.cache.EXPECT().Get(gomock.Any(), record.ID).Return(nil, sentinel.ErrNotFound)
		s.cache.EXPECT().Set(gomock.Any(), gomock.Any()).Return(nil)
		ctx := s.actorCtx(requestcontext.Actor{Role: requestcontext.RoleOrganizationAdmin, OrganizationID: 99})

		_, err := s.service.GetLicense(ctx, record.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ServiceSuite) TestListLicenses() {
	first := s.seedLicense(2, seat("u1", "Ana", nil))
	second := s.seedLicense(5)

	views, err := s.service.ListLicenses(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(views, 2)
	s.Equal(first.ID, views[0].ID)
	s.Equal(1, views[0].ActiveSeats)
	s.Equal(second.ID, views[1].ID)
	s.Equal(0, views[1].ActiveSeats)

	empty, err := s.service.ListLicenses(s.ctx, 12)
	s.Require().NoError(err)
	s.Empty(empty)
}

func (s *ServiceSuite) TestUpdateLicense() {
	s.Run("quantity decrease revokes least recently used seats", func() {
		record := s.seedLicense(3,
			seat("u1", "Ana", at(2025, 6, 10)),
			seat("u2", "Ben", nil),
			seat("u3", "Cy", at(2025, 5, 1)),
		)
		events := s.expectEvents(audit.EventLicenseUpdated, audit.EventSeatDeactivated, audit.EventSeatDeactivated)
		s.cache.EXPECT().Invalidate(gomock.Any(), record.ID).Return(nil)

		decision, err := s.service.UpdateLicense(s.ctx, record.ID, &models.UpdateLicenseRequest{
			LicenseTerms: terms(models.TypeUser, qty(1), "2026-01-01"),
		})
		s.Require().NoError(err)
		s.Equal([]id.UserID{"u2", "u3"}, decision.DeactivatedUserIDs)
		s.Equal("2 users were deactivated due to license quantity decrease. Deactivated users: Ben, Cy. (deactivated in order of oldest last login)", decision.Message)
		s.Equal(1, *decision.UpdatedLicense.Quantity)
		s.Equal(id.UserID("u2"), (*events)[1].UserID)
		s.Equal(seatReason, (*events)[2].Reason)

		seats, err := s.seats.ListByLicense(context.Background(), record.ID)
		s.Require().NoError(err)
		s.Equal(1, models.CountActive(seats))
		s.True(seats[0].Active)

		stored, err := s.licenses.FindByID(context.Background(), record.ID)
		s.Require().NoError(err)
		s.Equal(1, *stored.Quantity)
	})

	s.Run("quantity increase keeps every seat", func() {
		record := s.seedLicense(2, seat("u1", "Ana", nil), seat("u2", "Ben", nil))
		s.expectEvents(audit.EventLicenseUpdated)
		s.cache.EXPECT().Invalidate(gomock.Any(), record.ID).Return(nil)

		decision, err := s.service.UpdateLicense(s.ctx, record.ID, &models.UpdateLicenseRequest{
			LicenseTerms: terms(models.TypeUser, qty(5), "2026-01-01"),
		})
		s.Require().NoError(err)
		s.False(decision.HasDeactivations())
		s.Empty(decision.Message)
	})

	s.Run("switching to device makes the license unlimited", func() {
		record := s.seedLicense(2, seat("u1", "Ana", nil), seat("u2", "Ben", nil))
		s.expectEvents(audit.EventLicenseUpdated)
		s.cache.EXPECT().Invalidate(gomock.Any(), record.ID).Return(sentinel.ErrUnavailable)

		decision, err := s.service.UpdateLicense(s.ctx, record.ID, &models.UpdateLicenseRequest{
			LicenseTerms: terms(models.TypeDevice, qty(1), "2026-01-01"),
		})
		s.Require().NoError(err)
		s.False(decision.HasDeactivations())
		s.Nil(decision.UpdatedLicense.Quantity)
	})

	s.Run("status override survives an update", func() {
		record := s.seedLicense(2)
		record.ApplyDeactivation(testNow)
		s.Require().NoError(s.licenses.Update(context.Background(), record))
		s.expectEvents(audit.EventLicenseUpdated)
		s.cache.EXPECT().Invalidate(gomock.Any(), record.ID).Return(nil)

		decision, err := s.service.UpdateLicense(s.ctx, record.ID, &models.UpdateLicenseRequest{
			LicenseTerms: terms(models.TypeUser, qty(3), "2026-01-01"),
		})
		s.Require().NoError(err)
		s.Equal(models.StatusInactive, decision.UpdatedLicense.Status)
	})

	s.Run("unknown license is not found", func() {
		_, err := s.service.UpdateLicense(s.ctx, 404, &models.UpdateLicenseRequest{
			LicenseTerms: terms(models.TypeUser, qty(3), ""),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("invalid terms are rejected before loading", func() {
		_, err := s.service.UpdateLicense(s.ctx, 404, &models.UpdateLicenseRequest{
			LicenseTerms: terms("SEAT", qty(3), ""),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestPreviewUpdateWritesNothing() {
	record := s.seedLicense(2, seat("u1", "Ana", at(2025, 6, 1)), seat("u2", "", at(2025, 1, 1)))

	decision, err := s.service.PreviewUpdate(s.ctx, record.ID, &models.UpdateLicenseRequest{
		LicenseTerms: terms(models.TypeUser, qty(1), "2026-01-01"),
	})
	s.Require().NoError(err)
	s.Equal([]id.UserID{"u2"}, decision.DeactivatedUserIDs)
	s.Equal("1 user was deactivated due to license quantity decrease. Deactivated users: u2. (deactivated in order of oldest last login)", decision.Message)

	seats, err := s.seats.ListByLicense(context.Background(), record.ID)
	s.Require().NoError(err)
	s.Equal(2, models.CountActive(seats))
	stored, err := s.licenses.FindByID(context.Background(), record.ID)
	s.Require().NoError(err)
	s.Equal(2, *stored.Quantity)
}

func (s *ServiceSuite) TestDeactivateAndReactivate() {
	record := s.seedLicense(2)

	s.expectEvents(audit.EventLicenseDeactivated, audit.EventLicenseReactivated)
	s.cache.EXPECT().Invalidate(gomock.Any(), record.ID).Return(nil).Times(2)

	view, err := s.service.DeactivateLicense(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusInactive, view.Status)

	_, err = s.service.DeactivateLicense(s.ctx, record.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	view, err = s.service.ReactivateLicense(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusActive, view.Status)

	ctx := s.actorCtx(requestcontext.Actor{Role: requestcontext.RoleStudent, OrganizationID: 10})
	_, err = s.service.DeactivateLicense(ctx, record.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestAssignSeat() {
	s.Run("assigns until the license is full", func() {
		record := s.seedLicense(1)
		s.expectEvents(audit.EventSeatAssigned)
		s.cache.EXPECT().Invalidate(gomock.Any(), record.ID).Return(nil)

		seat, err := s.service.AssignSeat(s.ctx, record.ID, &models.AssignSeatRequest{UserID: "42", Name: "Dana", LastLogin: "2025-06-01"})
		s.Require().NoError(err)
		s.True(seat.Active)
		s.Equal(testNow, seat.AssignedAt)
		s.Require().NotNil(seat.LastLoginAt)

		_, err = s.service.AssignSeat(s.ctx, record.ID, &models.AssignSeatRequest{UserID: "43"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("same user twice conflicts", func() {
		record := s.seedLicense(5, seat("u1", "Ana", nil))

		_, err := s.service.AssignSeat(s.ctx, record.ID, &models.AssignSeatRequest{UserID: "u1"})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("inactive license takes no seats", func() {
		record := s.seedLicense(5)
		record.ApplyDeactivation(testNow)
		s.Require().NoError(s.licenses.Update(context.Background(), record))

		_, err := s.service.AssignSeat(s.ctx, record.ID, &models.AssignSeatRequest{UserID: "u9"})
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("blank user id is rejected", func() {
		_, err := s.service.AssignSeat(s.ctx, 1, &models.AssignSeatRequest{UserID: "  "})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func revoked(userID, name string) *models.Seat {
	st := seat(userID, name, nil)
	st.Active = false
	deactivatedAt := testNow.AddDate(0, 0, -3)
	st.DeactivatedAt = &deactivatedAt
	return st
}

func (s *ServiceSuite) TestReactivateSeat() {
	s.Run("revoked seat returns once the license has room", func() {
		record := s.seedLicense(2, seat("u1", "Ana", nil), revoked("u2", "Ben"))
		events := s.expectEvents(audit.EventSeatReactivated)
		s.cache.EXPECT().Invalidate(gomock.Any(), record.ID).Return(nil)

		st, err := s.service.ReactivateSeat(s.ctx, record.ID, " u2 ")
		s.Require().NoError(err)
		s.True(st.Active)
		s.Nil(st.DeactivatedAt)
		s.Equal(id.UserID("u2"), (*events)[0].UserID)

		seats, err := s.seats.ListByLicense(context.Background(), record.ID)
		s.Require().NoError(err)
		s.Equal(2, models.CountActive(seats))
	})

	s.Run("full license keeps the seat revoked", func() {
		record := s.seedLicense(1, seat("u1", "Ana", nil), revoked("u2", "Ben"))

		_, err := s.service.ReactivateSeat(s.ctx, record.ID, "u2")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))

		seats, err := s.seats.ListByLicense(context.Background(), record.ID)
		s.Require().NoError(err)
		s.Equal(1, models.CountActive(seats))
	})

	s.Run("inactive license rejects reactivation", func() {
		record := s.seedLicense(5, revoked("u2", "Ben"))
		record.ApplyDeactivation(testNow)
		s.Require().NoError(s.licenses.Update(context.Background(), record))

		_, err := s.service.ReactivateSeat(s.ctx, record.ID, "u2")
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("expired license rejects reactivation", func() {
		t := terms(models.TypeUser, qty(5), "2025-03-01")
		s.Require().NoError(t.Validate())
		record, err := models.NewOrganizationLicense(10, "Triage", t, testNow.AddDate(0, -6, 0))
		s.Require().NoError(err)
		s.Require().NoError(s.licenses.Create(context.Background(), record))
		st := revoked("u2", "Ben")
		st.LicenseID = record.ID
		s.Require().NoError(s.seats.Add(context.Background(), st))

		_, err = s.service.ReactivateSeat(s.ctx, record.ID, "u2")
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("active seat conflicts", func() {
		record := s.seedLicense(5, seat("u1", "Ana", nil))

		_, err := s.service.ReactivateSeat(s.ctx, record.ID, "u1")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown seat is not found", func() {
		record := s.seedLicense(5)

		_, err := s.service.ReactivateSeat(s.ctx, record.ID, "ghost")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("other organization is forbidden", func() {
		record := s.seedLicense(5, revoked("u2", "Ben"))
		ctx := s.actorCtx(requestcontext.Actor{Role: requestcontext.RoleOrganizationAdmin, OrganizationID: 99})

		_, err := s.service.ReactivateSeat(ctx, record.ID, "u2")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("blank user id is rejected", func() {
		_, err := s.service.ReactivateSeat(s.ctx, 1, " ")
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *ServiceSuite) TestSeatRevokedByDecreaseCanReturn() {
	record := s.seedLicense(2, seat("u1", "Ana", at(2025, 6, 1)), seat("u2", "Ben", at(2025, 1, 1)))
	s.expectEvents(audit.EventLicenseUpdated, audit.EventSeatDeactivated, audit.EventLicenseUpdated, audit.EventSeatReactivated)
	s.cache.EXPECT().Invalidate(gomock.Any(), record.ID).Return(nil).Times(3)

	decision, err := s.service.UpdateLicense(s.ctx, record.ID, &models.UpdateLicenseRequest{LicenseTerms: terms(models.TypeUser, qty(1), "2026-01-01")})
	s.Require().NoError(err)
	s.Equal([]id.UserID{"u2"}, decision.DeactivatedUserIDs)

	_, err = s.service.UpdateLicense(s.ctx, record.ID, &models.UpdateLicenseRequest{LicenseTerms: terms(models.TypeUser, qty(2), "2026-01-01")})
	s.Require().NoError(err)

	st, err := s.service.ReactivateSeat(s.ctx, record.ID, "u2")
	s.Require().NoError(err)
	s.True(st.Active)
}

func (s *ServiceSuite) TestListSeats() {
	record := s.seedLicense(5, seat("u1", "Ana", nil), seat("u2", "Ben", nil))

	seats, err := s.service.ListSeats(s.ctx, record.ID)
	s.Require().NoError(err)
	s.Len(seats, 2)

	_, err = s.service.ListSeats(s.ctx, 404)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestListAuditEvents() {
	trail := auditmemory.NewInMemoryStore()
	svc := New(s.licenses, s.seats,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditTrail(trail),
	)
	record := s.seedLicense(2)
	ctx := context.Background()
	s.Require().NoError(trail.Append(ctx, audit.Event{Action: audit.EventLicenseCreated, LicenseID: record.ID}))
	s.Require().NoError(trail.Append(ctx, audit.Event{Action: audit.EventSeatAssigned, LicenseID: record.ID, UserID: "u1"}))
	s.Require().NoError(trail.Append(ctx, audit.Event{Action: audit.EventLicenseCreated, LicenseID: record.ID + 1000}))

	s.Run("events of the license in append order", func() {
		events, err := svc.ListAuditEvents(s.ctx, record.ID)
		s.Require().NoError(err)
		s.Require().Len(events, 2)
		s.Equal(audit.EventLicenseCreated, events[0].Action)
		s.Equal(id.UserID("u1"), events[1].UserID)
	})

	s.Run("empty history is an empty list", func() {
		other := s.seedLicense(1)
		events, err := svc.ListAuditEvents(s.ctx, other.ID)
		s.Require().NoError(err)
		s.NotNil(events)
		s.Empty(events)
	})

	s.Run("other organization is forbidden", func() {
		ctx := s.actorCtx(requestcontext.Actor{Role: requestcontext.RoleOrganizationAdmin, OrganizationID: 99})
		_, err := svc.ListAuditEvents(ctx, record.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown license is not found", func() {
		_, err := svc.ListAuditEvents(s.ctx, 404)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("trail failure is internal", func() {
		failing := mocks.NewMockAuditTrail(gomock.NewController(s.T()))
		failing.EXPECT().ListByLicense(gomock.Any(), record.ID).Return(nil, errors.New("db down"))
		svc := New(s.licenses, s.seats, WithAuditTrail(failing))

		_, err := svc.ListAuditEvents(s.ctx, record.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("history is unavailable without a trail", func() {
		_, err := s.service.ListAuditEvents(s.ctx, record.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
