package store

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS admins (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'admin',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT admins_email_unique UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS alumni (
	id                 TEXT PRIMARY KEY,
	first_name         TEXT NOT NULL,
	last_name          TEXT NOT NULL,
	email              TEXT NOT NULL,
	mobile             TEXT NOT NULL,
	year_of_joining    INTEGER NOT NULL,
	year_of_leaving    INTEGER NOT NULL,
	class_of_joining   TEXT NOT NULL,
	last_class_studied TEXT NOT NULL,
	last_house         TEXT NOT NULL,
	full_address       TEXT NOT NULL,
	city               TEXT NOT NULL,
	pincode            TEXT NOT NULL,
	state              TEXT NOT NULL,
	country            TEXT NOT NULL,
	profession         TEXT NOT NULL DEFAULT '',
	organization       TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL DEFAULT 'pending',
	membership_id      TEXT,
	created_at         TIMESTAMPTZ NOT NULL,
	approved_at        TIMESTAMPTZ,
	CONSTRAINT alumni_email_unique UNIQUE (email)
);

CREATE INDEX IF NOT EXISTS idx_alumni_status_batch ON alumni (status, year_of_leaving);
CREATE UNIQUE INDEX IF NOT EXISTS alumni_membership_id_unique ON alumni (membership_id);

CREATE TABLE IF NOT EXISTS batch_sequences (
	batch INTEGER PRIMARY KEY,
	value BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	type       TEXT NOT NULL,
	title      TEXT NOT NULL,
	message    TEXT NOT NULL,
	alumni_id  TEXT,
	is_read    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL
);

ALTER TABLE notifications ADD COLUMN IF NOT EXISTS seq BIGSERIAL;

CREATE INDEX IF NOT EXISTS idx_notifications_recent ON notifications (created_at DESC, seq DESC);

CREATE TABLE IF NOT EXISTS events (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	event_type  TEXT NOT NULL,
	date        TEXT NOT NULL,
	time        TEXT NOT NULL,
	location    TEXT NOT NULL,
	image_url   TEXT NOT NULL DEFAULT '',
	is_active   BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS spotlight (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	batch       TEXT NOT NULL,
	profession  TEXT NOT NULL,
	achievement TEXT NOT NULL,
	category    TEXT NOT NULL,
	image_url   TEXT NOT NULL DEFAULT '',
	is_featured BOOLEAN NOT NULL DEFAULT TRUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Migrate applies the idempotent schema.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.Client.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}
