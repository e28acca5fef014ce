// Package service orchestrates license administration: persistence, seat
// reconciliation, audit and caching around the pure engine.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"licensehub/internal/license/metrics"
	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	dErrors "licensehub/pkg/domain-errors"
	audit "licensehub/pkg/platform/audit"
	"licensehub/pkg/platform/sentinel"
	"licensehub/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

type LicenseStore interface {
	Create(ctx context.Context, l *models.OrganizationLicense) error
	FindByID(ctx context.Context, licenseID id.LicenseID) (*models.OrganizationLicense, error)
	FindByIDForUpdate(ctx context.Context, licenseID id.LicenseID) (*models.OrganizationLicense, error)
	ListByOrganization(ctx context.Context, orgID id.OrganizationID) ([]*models.OrganizationLicense, error)
	Update(ctx context.Context, l *models.OrganizationLicense) error
	Execute(ctx context.Context, licenseID id.LicenseID, validate func(*models.OrganizationLicense) error, mutate func(*models.OrganizationLicense)) (*models.OrganizationLicense, error)
}

type SeatStore interface {
	Add(ctx context.Context, seat *models.Seat) error
	ListByLicense(ctx context.Context, licenseID id.LicenseID) ([]*models.Seat, error)
	Deactivate(ctx context.Context, licenseID id.LicenseID, userIDs []id.UserID, at time.Time) (int, error)
	Reactivate(ctx context.Context, licenseID id.LicenseID, userID id.UserID) error
}

// ViewCache caches license snapshots. Get reports a miss with
// sentinel.ErrNotFound; any other error is treated as a miss too.
type ViewCache interface {
	Get(ctx context.Context, licenseID id.LicenseID) (*models.Snapshot, error)
	Set(ctx context.Context, snap models.Snapshot) error
	Invalidate(ctx context.Context, licenseID id.LicenseID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// AuditTrail reads back the events recorded for a license.
type AuditTrail interface {
	ListByLicense(ctx context.Context, licenseID id.LicenseID) ([]audit.Event, error)
}

// LicenseTx runs fn as one unit of work on a single license. Stores called
// with the ctx passed to fn join the unit.
type LicenseTx interface {
	RunInTx(ctx context.Context, licenseID id.LicenseID, fn func(ctx context.Context) error) error
}

// Service implements the license administration operations.
type Service struct {
	licenses       LicenseStore
	seats          SeatStore
	tx             LicenseTx
	cache          ViewCache
	auditPublisher AuditPublisher
	auditTrail     AuditTrail
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithAuditTrail enables the license history read.
func WithAuditTrail(trail AuditTrail) Option {
	return func(s *Service) {
		s.auditTrail = trail
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCache enables the read-path view cache.
func WithCache(c ViewCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithTx replaces the default in-process transaction with e.g. a Postgres one.
func WithTx(tx LicenseTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// New constructs a Service. Without WithTx, units of work are serialized per
// license in process.
func New(licenses LicenseStore, seats SeatStore, opts ...Option) *Service {
	s := &Service{
		licenses: licenses,
		seats:    seats,
		logger:   slog.Default(),
		tracer:   otel.Tracer("licensehub/license"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = NewShardedTx(0)
	}
	return s
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "license."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil && !isClientError(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func isClientError(err error) bool {
	switch dErrors.CodeOf(err) {
	case dErrors.CodeInternal, dErrors.CodeTimeout:
		return false
	}
	return true
}

// authorize checks the request actor against the license's organization.
func authorize(ctx context.Context, orgID id.OrganizationID) error {
	if !requestcontext.ActorFrom(ctx).CanManage(orgID) {
		return dErrors.New(dErrors.CodeForbidden, "not allowed to manage licenses of this organization")
	}
	return nil
}

// translate maps store sentinels onto coded errors and leaves coded errors alone.
func translate(err error, op string) error {
	var de *dErrors.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "license not found")
	case errors.Is(err, context.DeadlineExceeded):
		return dErrors.Wrap(err, dErrors.CodeTimeout, op+" timed out")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+op)
	}
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditPublisher == nil {
		return nil
	}
	event.ActorID = requestcontext.ActorFrom(ctx).Subject
	event.RequestID = requestcontext.RequestID(ctx)
	return s.auditPublisher.Emit(ctx, event)
}

func (s *Service) invalidate(ctx context.Context, licenseID id.LicenseID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, licenseID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate license view",
			"license_id", licenseID,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
	}
}
