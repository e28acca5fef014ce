package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"licensehub/internal/license/engine"
	"licensehub/internal/license/metrics"
	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	audit "licensehub/pkg/platform/audit"
	"licensehub/pkg/requestcontext"
)

// seatReason is recorded on every seat_deactivated audit event.
const seatReason = "license quantity decreased"

// UpdateLicense replaces the license terms and revokes the seats that no
// longer fit, all in one unit of work.
func (s *Service) UpdateLicense(ctx context.Context, licenseID id.LicenseID, req *models.UpdateLicenseRequest) (decision *models.Decision, err error) {
	ctx, span := s.startSpan(ctx, "update", attribute.Int64("license_id", int64(licenseID)))
	started := time.Now()
	defer func() {
		s.observeUpdate(decision, err, started)
		endSpan(span, err)
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var out models.Decision
	err = s.tx.RunInTx(ctx, licenseID, func(ctx context.Context) error {
		record, err := s.licenses.FindByIDForUpdate(ctx, licenseID)
		if err != nil {
			return err
		}
		if err := authorize(ctx, record.OrganizationID); err != nil {
			return err
		}
		seats, err := s.seats.ListByLicense(ctx, licenseID)
		if err != nil {
			return err
		}
		out, err = decide(record, seats, req.LicenseTerms, now)
		if err != nil {
			return err
		}

		if err := record.ApplyTerms(req.LicenseTerms, now); err != nil {
			return err
		}
		if err := s.licenses.Update(ctx, record); err != nil {
			return err
		}
		if out.HasDeactivations() {
			if _, err := s.seats.Deactivate(ctx, licenseID, out.DeactivatedUserIDs, now); err != nil {
				return err
			}
		}
		return s.emitUpdate(ctx, record, out)
	})
	if err != nil {
		return nil, translate(err, "update license")
	}
	s.invalidate(ctx, licenseID)

	s.logger.InfoContext(ctx, "license updated",
		"license_id", licenseID,
		"deactivated_seats", len(out.DeactivatedUserIDs),
		"request_id", requestcontext.RequestID(ctx),
	)
	return &out, nil
}

// PreviewUpdate computes what UpdateLicense would decide without writing anything.
func (s *Service) PreviewUpdate(ctx context.Context, licenseID id.LicenseID, req *models.UpdateLicenseRequest) (decision *models.Decision, err error) {
	ctx, span := s.startSpan(ctx, "preview", attribute.Int64("license_id", int64(licenseID)))
	defer func() { endSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return nil, err
	}
	record, err := s.licenses.FindByID(ctx, licenseID)
	if err != nil {
		return nil, translate(err, "load license")
	}
	if err := authorize(ctx, record.OrganizationID); err != nil {
		return nil, err
	}
	seats, err := s.seats.ListByLicense(ctx, licenseID)
	if err != nil {
		return nil, translate(err, "load seats")
	}
	out, err := decide(record, seats, req.LicenseTerms, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// decide runs the engine on the stored record and the requested terms.
func decide(record *models.OrganizationLicense, seats []*models.Seat, terms models.LicenseTerms, now time.Time) (models.Decision, error) {
	next, err := record.RawWithTerms(terms)
	if err != nil {
		return models.Decision{}, err
	}
	return engine.Reconcile(record.Raw(), next, models.Roster(seats), now), nil
}

func (s *Service) emitUpdate(ctx context.Context, record *models.OrganizationLicense, decision models.Decision) error {
	if err := s.emit(ctx, audit.Event{
		Action:         audit.EventLicenseUpdated,
		OrganizationID: record.OrganizationID,
		LicenseID:      record.ID,
		Reason:         decision.Message,
	}); err != nil {
		return err
	}
	for _, userID := range decision.DeactivatedUserIDs {
		if err := s.emit(ctx, audit.Event{
			Action:         audit.EventSeatDeactivated,
			OrganizationID: record.OrganizationID,
			LicenseID:      record.ID,
			UserID:         userID,
			Reason:         seatReason,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) observeUpdate(decision *models.Decision, err error, started time.Time) {
	switch {
	case err != nil && isClientError(err):
		s.metrics.ObserveReconcile(metrics.OutcomeRejected, 0, started)
	case err != nil:
		s.metrics.ObserveReconcile(metrics.OutcomeFailed, 0, started)
	case decision.HasDeactivations():
		s.metrics.ObserveReconcile(metrics.OutcomeDeactivated, len(decision.DeactivatedUserIDs), started)
	default:
		s.metrics.ObserveReconcile(metrics.OutcomeUnchanged, 0, started)
	}
}
