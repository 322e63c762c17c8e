package sequence

import (
	"context"
	"database/sql"
	"fmt"
)

// Postgres stores one row per batch in batch_sequences. The first call for a
// batch seeds the row from the highest membership id already issued in it,
// rejected records included, so a database that predates the table keeps
// counting where it left off.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Next(ctx context.Context, batch int) (int64, error) {
	var value int64
	err := p.db.QueryRowContext(ctx, `
		INSERT INTO batch_sequences (batch, value)
		VALUES ($1, (
			SELECT COALESCE(MAX(CAST(SUBSTRING(membership_id FROM 5) AS BIGINT)), 0)
			FROM alumni
			WHERE year_of_leaving = $1 AND membership_id IS NOT NULL
		) + 1)
		ON CONFLICT (batch) DO UPDATE SET value = batch_sequences.value + 1
		RETURNING value
	`, batch).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("next sequence for batch %d: %w", batch, err)
	}
	return value, nil
}
