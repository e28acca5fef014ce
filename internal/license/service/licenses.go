package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"licensehub/internal/license/engine"
	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	audit "licensehub/pkg/platform/audit"
	"licensehub/pkg/platform/sentinel"
	"licensehub/pkg/requestcontext"
)

// listConcurrency bounds the roster loads of ListLicenses.
const listConcurrency = 8

// CreateLicense registers a new ACTIVE license for orgID.
func (s *Service) CreateLicense(ctx context.Context, orgID id.OrganizationID, req *models.CreateLicenseRequest) (view *models.LicenseView, err error) {
	ctx, span := s.startSpan(ctx, "create", attribute.Int64("organization_id", int64(orgID)))
	defer func() { endSpan(span, err) }()

	if err := authorize(ctx, orgID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	record, err := models.NewOrganizationLicense(orgID, req.ScenarioTitle, req.LicenseTerms, now)
	if err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, 0, func(ctx context.Context) error {
		if err := s.licenses.Create(ctx, record); err != nil {
			return err
		}
		return s.emit(ctx, audit.Event{
			Action:         audit.EventLicenseCreated,
			OrganizationID: orgID,
			LicenseID:      record.ID,
		})
	})
	if err != nil {
		return nil, translate(err, "create license")
	}

	s.logger.InfoContext(ctx, "license created",
		"license_id", record.ID,
		"organization_id", orgID,
		"type", record.Type,
		"request_id", requestcontext.RequestID(ctx),
	)
	v := engine.Describe(models.Snapshot{License: record.Raw()}, now)
	return &v, nil
}

// GetLicense returns the license with its usage figures.
func (s *Service) GetLicense(ctx context.Context, licenseID id.LicenseID) (view *models.LicenseView, err error) {
	ctx, span := s.startSpan(ctx, "get", attribute.Int64("license_id", int64(licenseID)))
	defer func() { endSpan(span, err) }()

	snap, err := s.snapshot(ctx, licenseID)
	if err != nil {
		return nil, translate(err, "load license")
	}
	if err := authorize(ctx, snap.License.OrganizationID); err != nil {
		return nil, err
	}
	v := engine.Describe(*snap, requestcontext.Now(ctx))
	return &v, nil
}

// snapshot reads through the view cache, loading the license and its roster
// concurrently on a miss.
func (s *Service) snapshot(ctx context.Context, licenseID id.LicenseID) (*models.Snapshot, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, licenseID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, sentinel.ErrNotFound) && !errors.Is(err, sentinel.ErrUnavailable) {
			s.logger.WarnContext(ctx, "license view cache read failed",
				"license_id", licenseID,
				"error", err,
			)
		}
	}

	var (
		record *models.OrganizationLicense
		seats  []*models.Seat
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		record, err = s.licenses.FindByID(gctx, licenseID)
		return err
	})
	g.Go(func() error {
		var err error
		seats, err = s.seats.ListByLicense(gctx, licenseID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := models.Snapshot{License: record.Raw(), ActiveSeats: models.CountActive(seats)}
	if s.cache != nil {
		if err := s.cache.Set(ctx, snap); err != nil {
			s.logger.DebugContext(ctx, "license view not cached",
				"license_id", licenseID,
				"error", err,
			)
		}
	}
	return &snap, nil
}

// ListLicenses returns the organization's licenses ordered by id.
func (s *Service) ListLicenses(ctx context.Context, orgID id.OrganizationID) (views []models.LicenseView, err error) {
	ctx, span := s.startSpan(ctx, "list", attribute.Int64("organization_id", int64(orgID)))
	defer func() { endSpan(span, err) }()

	if err := authorize(ctx, orgID); err != nil {
		return nil, err
	}
	records, err := s.licenses.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, translate(err, "list licenses")
	}

	active := make([]int, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)
	for i, record := range records {
		g.Go(func() error {
			seats, err := s.seats.ListByLicense(gctx, record.ID)
			if err != nil {
				return err
			}
			active[i] = models.CountActive(seats)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, translate(err, "list licenses")
	}

	now := requestcontext.Now(ctx)
	views = make([]models.LicenseView, 0, len(records))
	for i, record := range records {
		views = append(views, engine.Describe(models.Snapshot{License: record.Raw(), ActiveSeats: active[i]}, now))
	}
	return views, nil
}

// DeactivateLicense applies the administrative INACTIVE override.
func (s *Service) DeactivateLicense(ctx context.Context, licenseID id.LicenseID) (*models.LicenseView, error) {
	return s.transition(ctx, licenseID, "deactivate", audit.EventLicenseDeactivated,
		(*models.OrganizationLicense).CanDeactivate,
		(*models.OrganizationLicense).ApplyDeactivation,
	)
}

// ReactivateLicense lifts the administrative override.
func (s *Service) ReactivateLicense(ctx context.Context, licenseID id.LicenseID) (*models.LicenseView, error) {
	return s.transition(ctx, licenseID, "reactivate", audit.EventLicenseReactivated,
		(*models.OrganizationLicense).CanReactivate,
		(*models.OrganizationLicense).ApplyReactivation,
	)
}

func (s *Service) transition(
	ctx context.Context,
	licenseID id.LicenseID,
	name string,
	action audit.AuditEvent,
	check func(*models.OrganizationLicense) error,
	apply func(*models.OrganizationLicense, time.Time),
) (view *models.LicenseView, err error) {
	ctx, span := s.startSpan(ctx, name, attribute.Int64("license_id", int64(licenseID)))
	defer func() { endSpan(span, err) }()

	now := requestcontext.Now(ctx)
	var snap models.Snapshot
	err = s.tx.RunInTx(ctx, licenseID, func(ctx context.Context) error {
		record, err := s.licenses.Execute(ctx, licenseID,
			func(l *models.OrganizationLicense) error {
				if err := authorize(ctx, l.OrganizationID); err != nil {
					return err
				}
				return check(l)
			},
			func(l *models.OrganizationLicense) {
				apply(l, now)
			},
		)
		if err != nil {
			return err
		}
		seats, err := s.seats.ListByLicense(ctx, licenseID)
		if err != nil {
			return err
		}
		snap = models.Snapshot{License: record.Raw(), ActiveSeats: models.CountActive(seats)}
		return s.emit(ctx, audit.Event{
			Action:         action,
			OrganizationID: record.OrganizationID,
			LicenseID:      record.ID,
		})
	})
	if err != nil {
		return nil, translate(err, name+" license")
	}
	s.invalidate(ctx, licenseID)

	s.logger.InfoContext(ctx, "license status changed",
		"license_id", licenseID,
		"status", snap.License.Status,
		"request_id", requestcontext.RequestID(ctx),
	)
	v := engine.Describe(snap, now)
	return &v, nil
}
