package license

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	"licensehub/pkg/platform/sentinel"
	txcontext "licensehub/pkg/platform/tx"
)

// PostgresStore persists licenses in PostgreSQL. Inside a transaction carried
// on the context (pkg/platform/tx) every statement joins that transaction.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed license store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const licenseColumns = `
	id, organization_id, scenario_title, license_type, plan, quantity,
	start_at, end_at, status, validity_period, validity_period_unit,
	curriculum_ids, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, l *models.OrganizationLicense) error {
	query := `
		INSERT INTO organization_licenses (
			organization_id, scenario_title, license_type, plan, quantity,
			start_at, end_at, status, validity_period, validity_period_unit,
			curriculum_ids, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	var licenseID int64
	err := s.q(ctx).QueryRowContext(ctx, query,
		int64(l.OrganizationID),
		l.ScenarioTitle,
		string(l.Type),
		string(l.Plan),
		nullInt(l.Quantity),
		l.StartAt,
		nullTime(l.EndAt),
		string(l.Status),
		nullInt(l.ValidityPeriod),
		nullString(string(l.ValidityPeriodUnit)),
		pq.Array(curriculum(l.CurriculumIDs)),
		l.CreatedAt,
		l.UpdatedAt,
	).Scan(&licenseID)
	if err != nil {
		return fmt.Errorf("insert license: %w", err)
	}
	l.ID = id.LicenseID(licenseID)
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, licenseID id.LicenseID) (*models.OrganizationLicense, error) {
	query := `SELECT ` + licenseColumns + ` FROM organization_licenses WHERE id = $1`
	return s.findOne(ctx, query, licenseID)
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
// It must be called with a transaction on the context.
func (s *PostgresStore) FindByIDForUpdate(ctx context.Context, licenseID id.LicenseID) (*models.OrganizationLicense, error) {
	if !txcontext.InTx(ctx) {
		return nil, errors.New("find license for update: no transaction in context")
	}
	query := `SELECT ` + licenseColumns + ` FROM organization_licenses WHERE id = $1 FOR UPDATE`
	return s.findOne(ctx, query, licenseID)
}

func (s *PostgresStore) findOne(ctx context.Context, query string, licenseID id.LicenseID) (*models.OrganizationLicense, error) {
	l, err := scanLicense(s.q(ctx).QueryRowContext(ctx, query, int64(licenseID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find license by id: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) ListByOrganization(ctx context.Context, orgID id.OrganizationID) ([]*models.OrganizationLicense, error) {
	query := `SELECT ` + licenseColumns + ` FROM organization_licenses WHERE organization_id = $1 ORDER BY id`
	rows, err := s.q(ctx).QueryContext(ctx, query, int64(orgID))
	if err != nil {
		return nil, fmt.Errorf("list licenses: %w", err)
	}
	defer rows.Close()

	var out []*models.OrganizationLicense
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan license: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate licenses: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Update(ctx context.Context, l *models.OrganizationLicense) error {
	query := `
		UPDATE organization_licenses SET
			scenario_title = $2, license_type = $3, plan = $4, quantity = $5,
			start_at = $6, end_at = $7, status = $8, validity_period = $9,
			validity_period_unit = $10, curriculum_ids = $11, updated_at = $12
		WHERE id = $1
	`
	res, err := s.q(ctx).ExecContext(ctx, query,
		int64(l.ID),
		l.ScenarioTitle,
		string(l.Type),
		string(l.Plan),
		nullInt(l.Quantity),
		l.StartAt,
		nullTime(l.EndAt),
		string(l.Status),
		nullInt(l.ValidityPeriod),
		nullString(string(l.ValidityPeriodUnit)),
		pq.Array(curriculum(l.CurriculumIDs)),
		l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update license: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update license rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Execute locks the row with FOR UPDATE, runs validate, and persists mutate's
// changes. It joins the context transaction or opens its own.
func (s *PostgresStore) Execute(ctx context.Context, licenseID id.LicenseID, validate func(*models.OrganizationLicense) error, mutate func(*models.OrganizationLicense)) (*models.OrganizationLicense, error) {
	if txcontext.InTx(ctx) {
		return s.execute(ctx, licenseID, validate, mutate)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin license tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()
	l, err := s.execute(txcontext.WithTx(ctx, tx), licenseID, validate, mutate)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit license tx: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) execute(ctx context.Context, licenseID id.LicenseID, validate func(*models.OrganizationLicense) error, mutate func(*models.OrganizationLicense)) (*models.OrganizationLicense, error) {
	l, err := s.FindByIDForUpdate(ctx, licenseID)
	if err != nil {
		return nil, err
	}
	if err := validate(l); err != nil {
		return nil, err
	}
	mutate(l)
	if err := s.Update(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLicense(row rowScanner) (*models.OrganizationLicense, error) {
	var (
		l              models.OrganizationLicense
		orgID, rowID   int64
		licenseType    string
		plan           string
		status         string
		quantity       sql.NullInt64
		startAt        sql.NullTime
		endAt          sql.NullTime
		validityPeriod sql.NullInt64
		validityUnit   sql.NullString
		curriculumIDs  []int64
	)
	err := row.Scan(
		&rowID, &orgID, &l.ScenarioTitle, &licenseType, &plan, &quantity,
		&startAt, &endAt, &status, &validityPeriod, &validityUnit,
		pq.Array(&curriculumIDs), &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.ID = id.LicenseID(rowID)
	l.OrganizationID = id.OrganizationID(orgID)
	l.Type = models.Type(licenseType)
	l.Plan = models.Plan(plan)
	l.Status = models.Status(status)
	l.Quantity = intFromNull(quantity)
	if startAt.Valid {
		l.StartAt = startAt.Time.UTC()
	}
	if endAt.Valid {
		t := endAt.Time.UTC()
		l.EndAt = &t
	}
	l.ValidityPeriod = intFromNull(validityPeriod)
	l.ValidityPeriodUnit = models.DurationUnit(validityUnit.String)
	l.CurriculumIDs = curriculum(curriculumIDs)
	l.CreatedAt = l.CreatedAt.UTC()
	l.UpdatedAt = l.UpdatedAt.UTC()
	return &l, nil
}

func curriculum(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intFromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
