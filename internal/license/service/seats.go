package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"licensehub/internal/license/engine"
	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	dErrors "licensehub/pkg/domain-errors"
	audit "licensehub/pkg/platform/audit"
	"licensehub/pkg/platform/sentinel"
	"licensehub/pkg/requestcontext"
)

// ListSeats returns the license roster in assignment order.
func (s *Service) ListSeats(ctx context.Context, licenseID id.LicenseID) (seats []*models.Seat, err error) {
	ctx, span := s.startSpan(ctx, "list_seats", attribute.Int64("license_id", int64(licenseID)))
	defer func() { endSpan(span, err) }()

	record, err := s.licenses.FindByID(ctx, licenseID)
	if err != nil {
		return nil, translate(err, "load license")
	}
	if err := authorize(ctx, record.OrganizationID); err != nil {
		return nil, err
	}
	seats, err = s.seats.ListByLicense(ctx, licenseID)
	if err != nil {
		return nil, translate(err, "list seats")
	}
	return seats, nil
}

// AssignSeat gives a user an active seat. Capped licenses reject assignments
// beyond their quantity; inactive and expired licenses reject all of them.
func (s *Service) AssignSeat(ctx context.Context, licenseID id.LicenseID, req *models.AssignSeatRequest) (seat *models.Seat, err error) {
	ctx, span := s.startSpan(ctx, "assign_seat", attribute.Int64("license_id", int64(licenseID)))
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	err = s.tx.RunInTx(ctx, licenseID, func(ctx context.Context) error {
		record, err := s.licenses.FindByIDForUpdate(ctx, licenseID)
		if err != nil {
			return err
		}
		if err := authorize(ctx, record.OrganizationID); err != nil {
			return err
		}
		existing, err := s.seats.ListByLicense(ctx, licenseID)
		if err != nil {
			return err
		}
		if err := admitSeat(record, existing, now); err != nil {
			return err
		}

		seat = req.NewSeat(licenseID, now)
		if err := s.seats.Add(ctx, seat); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "user already holds a seat on this license")
			}
			return err
		}
		return s.emit(ctx, audit.Event{
			Action:         audit.EventSeatAssigned,
			OrganizationID: record.OrganizationID,
			LicenseID:      licenseID,
			UserID:         seat.UserID,
		})
	})
	if err != nil {
		return nil, translate(err, "assign seat")
	}
	s.invalidate(ctx, licenseID)
	s.metrics.IncSeatsAssigned()
	return seat, nil
}

// ReactivateSeat returns a revoked seat to its user. The license must be able to
// take the seat under the same rules as AssignSeat.
func (s *Service) ReactivateSeat(ctx context.Context, licenseID id.LicenseID, userID id.UserID) (seat *models.Seat, err error) {
	ctx, span := s.startSpan(ctx, "reactivate_seat", attribute.Int64("license_id", int64(licenseID)))
	defer func() { endSpan(span, err) }()

	userID, err = id.ParseUserID(string(userID))
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	err = s.tx.RunInTx(ctx, licenseID, func(ctx context.Context) error {
		record, err := s.licenses.FindByIDForUpdate(ctx, licenseID)
		if err != nil {
			return err
		}
		if err := authorize(ctx, record.OrganizationID); err != nil {
			return err
		}
		existing, err := s.seats.ListByLicense(ctx, licenseID)
		if err != nil {
			return err
		}
		idx := slices.IndexFunc(existing, func(st *models.Seat) bool { return st.UserID == userID })
		if idx < 0 {
			return dErrors.New(dErrors.CodeNotFound, "seat not found")
		}
		if existing[idx].Active {
			return dErrors.New(dErrors.CodeConflict, "seat is already active")
		}
		if err := admitSeat(record, existing, now); err != nil {
			return err
		}

		if err := s.seats.Reactivate(ctx, licenseID, userID); err != nil {
			switch {
			case errors.Is(err, sentinel.ErrNotFound):
				return dErrors.New(dErrors.CodeNotFound, "seat not found")
			case errors.Is(err, sentinel.ErrConflict):
				return dErrors.New(dErrors.CodeConflict, "seat is already active")
			}
			return err
		}
		seat = existing[idx]
		seat.Active = true
		seat.DeactivatedAt = nil
		return s.emit(ctx, audit.Event{
			Action:         audit.EventSeatReactivated,
			OrganizationID: record.OrganizationID,
			LicenseID:      licenseID,
			UserID:         userID,
		})
	})
	if err != nil {
		return nil, translate(err, "reactivate seat")
	}
	s.invalidate(ctx, licenseID)
	s.metrics.IncSeatsReactivated()
	return seat, nil
}

// admitSeat rejects a new active seat on inactive or expired licenses and on
// capped licenses that are full.
func admitSeat(record *models.OrganizationLicense, seats []*models.Seat, now time.Time) error {
	l := engine.Normalize(record.Raw(), now)
	switch l.Status {
	case models.StatusInactive, models.StatusExpired:
		return dErrors.New(dErrors.CodeInvariantViolation, "license is "+string(l.Status)+" and cannot take new seats")
	}
	if l.Quantity != nil && models.CountActive(seats) >= *l.Quantity {
		return dErrors.New(dErrors.CodeConflict, "license has no free seats")
	}
	return nil
}

// ListAuditEvents returns the recorded history of a license, oldest first.
func (s *Service) ListAuditEvents(ctx context.Context, licenseID id.LicenseID) (events []audit.Event, err error) {
	ctx, span := s.startSpan(ctx, "list_audit_events", attribute.Int64("license_id", int64(licenseID)))
	defer func() { endSpan(span, err) }()

	if s.auditTrail == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "license history is not recorded")
	}
	record, err := s.licenses.FindByID(ctx, licenseID)
	if err != nil {
		return nil, translate(err, "load license")
	}
	if err := authorize(ctx, record.OrganizationID); err != nil {
		return nil, err
	}
	events, err = s.auditTrail.ListByLicense(ctx, licenseID)
	if err != nil {
		return nil, translate(err, "list license history")
	}
	if events == nil {
		events = []audit.Event{}
	}
	return events, nil
}
