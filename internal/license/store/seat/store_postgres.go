package seat

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"licensehub/internal/license/models"
	id "licensehub/pkg/domain"
	"licensehub/pkg/platform/sentinel"
	txcontext "licensehub/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists seats in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed seat store.
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

func (s *PostgresStore) Add(ctx context.Context, seat *models.Seat) error {
	query := `
		INSERT INTO license_seats (license_id, user_id, user_name, active, last_login_at, assigned_at, deactivated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		int64(seat.LicenseID),
		string(seat.UserID),
		seat.UserName,
		seat.Active,
		nullTime(seat.LastLoginAt),
		seat.AssignedAt,
		nullTime(seat.DeactivatedAt),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert seat: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByLicense(ctx context.Context, licenseID id.LicenseID) ([]*models.Seat, error) {
	query := `
		SELECT license_id, user_id, user_name, active, last_login_at, assigned_at, deactivated_at
		FROM license_seats
		WHERE license_id = $1
		ORDER BY assigned_at, user_id
	`
	rows, err := s.q(ctx).QueryContext(ctx, query, int64(licenseID))
	if err != nil {
		return nil, fmt.Errorf("list seats: %w", err)
	}
	defer rows.Close()

	out := []*models.Seat{}
	for rows.Next() {
		var (
			seat          models.Seat
			rowLicenseID  int64
			userID        string
			lastLoginAt   sql.NullTime
			deactivatedAt sql.NullTime
		)
		if err := rows.Scan(&rowLicenseID, &userID, &seat.UserName, &seat.Active, &lastLoginAt, &seat.AssignedAt, &deactivatedAt); err != nil {
			return nil, fmt.Errorf("scan seat: %w", err)
		}
		seat.LicenseID = id.LicenseID(rowLicenseID)
		seat.UserID = id.UserID(userID)
		seat.AssignedAt = seat.AssignedAt.UTC()
		seat.LastLoginAt = timeFromNull(lastLoginAt)
		seat.DeactivatedAt = timeFromNull(deactivatedAt)
		out = append(out, &seat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate seats: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, licenseID id.LicenseID, userIDs []id.UserID, at time.Time) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	ids := make([]string, len(userIDs))
	for i, u := range userIDs {
		ids[i] = string(u)
	}
	query := `
		UPDATE license_seats
		SET active = FALSE, deactivated_at = $3
		WHERE license_id = $1 AND user_id = ANY($2::text[]) AND active
	`
	res, err := s.q(ctx).ExecContext(ctx, query, int64(licenseID), pq.Array(ids), at)
	if err != nil {
		return 0, fmt.Errorf("deactivate seats: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("deactivate seats rows affected: %w", err)
	}
	return int(n), nil
}

// Reactivate returns an inactive seat to active. A missing seat is
// sentinel.ErrNotFound and an already active one sentinel.ErrConflict.
func (s *PostgresStore) Reactivate(ctx context.Context, licenseID id.LicenseID, userID id.UserID) error {
	q := s.q(ctx)
	res, err := q.ExecContext(ctx, `
		UPDATE license_seats
		SET active = TRUE, deactivated_at = NULL
		WHERE license_id = $1 AND user_id = $2 AND NOT active
	`, int64(licenseID), string(userID))
	if err != nil {
		return fmt.Errorf("reactivate seat: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reactivate seat rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	var exists bool
	err = q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM license_seats WHERE license_id = $1 AND user_id = $2)`,
		int64(licenseID), string(userID),
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check seat: %w", err)
	}
	if exists {
		return sentinel.ErrConflict
	}
	return sentinel.ErrNotFound
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timeFromNull(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
