package alumni

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ehsas/internal/store"
)

const alumniColumns = `id, first_name, last_name, email, mobile, year_of_joining, year_of_leaving,
	class_of_joining, last_class_studied, last_house, full_address, city, pincode, state, country,
	profession, organization, status, membership_id, created_at, approved_at`

// PostgresStore persists alumni in the alumni table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, a Alumni) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO alumni (`+alumniColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
	`, a.ID, a.FirstName, a.LastName, a.Email, a.Mobile, a.YearOfJoining, a.YearOfLeaving,
		a.ClassOfJoining, a.LastClassStudied, a.LastHouse, a.FullAddress, a.City, a.Pincode, a.State, a.Country,
		a.Profession, a.Organization, string(a.Status), a.MembershipID, a.CreatedAt, a.ApprovedAt)
	if err != nil {
		if store.IsUniqueViolation(err, "alumni_email_unique") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert alumni: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Alumni, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+alumniColumns+` FROM alumni WHERE id = $1`, id)
	return scanOne(row)
}

func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (Alumni, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+alumniColumns+` FROM alumni WHERE email = $1`, email)
	return scanOne(row)
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]Alumni, error) {
	query := `SELECT ` + alumniColumns + ` FROM alumni`
	var (
		args    []any
		clauses []string
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Status != nil {
		clauses = append(clauses, "status = "+arg(string(*f.Status)))
	}
	if f.Batch != nil {
		clauses = append(clauses, "year_of_leaving = "+arg(*f.Batch))
	}
	if f.Profession != "" {
		clauses = append(clauses, "POSITION(LOWER("+arg(f.Profession)+") IN LOWER(profession)) > 0")
	}
	if f.City != "" {
		clauses = append(clauses, "POSITION(LOWER("+arg(f.City)+") IN LOWER(city)) > 0")
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alumni: %w", err)
	}
	defer rows.Close()

	out := []Alumni{}
	for rows.Next() {
		a, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Approve(ctx context.Context, id, membershipID string, at time.Time) (Alumni, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE alumni
		SET status = 'approved',
			membership_id = COALESCE(membership_id, $2),
			approved_at = COALESCE(approved_at, $3)
		WHERE id = $1
		RETURNING `+alumniColumns, id, membershipID, at)
	a, err := scanOne(row)
	if store.IsUniqueViolation(err, "alumni_membership_id_unique") {
		return Alumni{}, ErrDuplicateMembershipID
	}
	return a, err
}

func (s *PostgresStore) Reject(ctx context.Context, id string) (Alumni, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE alumni SET status = 'rejected'
		WHERE id = $1
		RETURNING `+alumniColumns, id)
	return scanOne(row)
}

func (s *PostgresStore) CountByStatus(ctx context.Context, st Status) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM alumni WHERE status = $1`, string(st)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count alumni: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) BatchDistribution(ctx context.Context, st Status, limit int) ([]BatchCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT year_of_leaving, COUNT(*)
		FROM alumni
		WHERE status = $1
		GROUP BY year_of_leaving
		ORDER BY year_of_leaving DESC
		LIMIT $2
	`, string(st), limit)
	if err != nil {
		return nil, fmt.Errorf("batch distribution: %w", err)
	}
	defer rows.Close()

	out := []BatchCount{}
	for rows.Next() {
		var bc BatchCount
		if err := rows.Scan(&bc.Batch, &bc.Count); err != nil {
			return nil, fmt.Errorf("scan batch count: %w", err)
		}
		out = append(out, bc)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row *sql.Row) (Alumni, error) {
	a, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Alumni{}, ErrNotFound
	}
	return a, err
}

func scan(sc scanner) (Alumni, error) {
	var (
		a      Alumni
		status string
	)
	err := sc.Scan(&a.ID, &a.FirstName, &a.LastName, &a.Email, &a.Mobile, &a.YearOfJoining, &a.YearOfLeaving,
		&a.ClassOfJoining, &a.LastClassStudied, &a.LastHouse, &a.FullAddress, &a.City, &a.Pincode, &a.State, &a.Country,
		&a.Profession, &a.Organization, &status, &a.MembershipID, &a.CreatedAt, &a.ApprovedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Alumni{}, err
		}
		return Alumni{}, fmt.Errorf("scan alumni: %w", err)
	}
	a.Status = Status(status)
	a.CreatedAt = a.CreatedAt.UTC()
	if a.ApprovedAt != nil {
		t := a.ApprovedAt.UTC()
		a.ApprovedAt = &t
	}
	return a, nil
}
