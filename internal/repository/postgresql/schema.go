package postgresql

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            SERIAL PRIMARY KEY,
		username      VARCHAR(50)  NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		full_name     VARCHAR(100) NOT NULL DEFAULT '',
		role          VARCHAR(20)  NOT NULL,
		is_active     BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at    TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at    TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_username_key ON users (LOWER(username))`,

	`CREATE TABLE IF NOT EXISTS vehicle_types (
		id          SERIAL PRIMARY KEY,
		name        VARCHAR(50)  NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		is_active   BOOLEAN      NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS vehicle_types_name_key ON vehicle_types (LOWER(name))`,

	`CREATE TABLE IF NOT EXISTS rate_configs (
		id                   SERIAL PRIMARY KEY,
		vehicle_type_id      INTEGER       NOT NULL REFERENCES vehicle_types (id),
		rate_per_hour        NUMERIC(12,2) NOT NULL CHECK (rate_per_hour > 0),
		minimum_charge_hours INTEGER       NOT NULL DEFAULT 1 CHECK (minimum_charge_hours >= 1),
		maximum_daily_rate   NUMERIC(12,2),
		is_active            BOOLEAN       NOT NULL DEFAULT FALSE,
		created_at           TIMESTAMPTZ   NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at           TIMESTAMPTZ   NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS rate_configs_one_active_per_type
		ON rate_configs (vehicle_type_id) WHERE is_active`,

	`CREATE TABLE IF NOT EXISTS vehicles (
		id              SERIAL PRIMARY KEY,
		license_plate   VARCHAR(15)  NOT NULL UNIQUE,
		vehicle_type_id INTEGER      NOT NULL REFERENCES vehicle_types (id),
		owner_name      VARCHAR(100) NOT NULL DEFAULT '',
		owner_phone     VARCHAR(30)  NOT NULL DEFAULT '',
		created_at      TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at      TIMESTAMPTZ  NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,

	`CREATE TABLE IF NOT EXISTS parking_spaces (
		id                        SERIAL PRIMARY KEY,
		space_number              VARCHAR(20) NOT NULL,
		vehicle_type_id           INTEGER     NOT NULL REFERENCES vehicle_types (id),
		is_occupied               BOOLEAN     NOT NULL DEFAULT FALSE,
		is_active                 BOOLEAN     NOT NULL DEFAULT TRUE,
		occupied_by_vehicle_plate VARCHAR(15),
		occupied_at               TIMESTAMPTZ,
		created_at                TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at                TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS parking_spaces_space_number_key ON parking_spaces (LOWER(space_number))`,
	`CREATE UNIQUE INDEX IF NOT EXISTS parking_spaces_occupied_plate_key
		ON parking_spaces (occupied_by_vehicle_plate) WHERE is_occupied`,

	`CREATE TABLE IF NOT EXISTS parking_sessions (
		id                SERIAL PRIMARY KEY,
		vehicle_id        INTEGER     NOT NULL REFERENCES vehicles (id),
		parking_space_id  INTEGER     NOT NULL REFERENCES parking_spaces (id),
		entry_time        TIMESTAMPTZ NOT NULL,
		exit_time         TIMESTAMPTZ,
		operator_entry_id INTEGER     NOT NULL,
		operator_exit_id  INTEGER,
		is_active         BOOLEAN     NOT NULL DEFAULT TRUE,
		ticket_code       VARCHAR(40) NOT NULL UNIQUE,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (is_active = (exit_time IS NULL))
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS parking_sessions_one_active_per_vehicle
		ON parking_sessions (vehicle_id) WHERE is_active`,
	`CREATE INDEX IF NOT EXISTS parking_sessions_entry_time_idx ON parking_sessions (entry_time)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id                 SERIAL PRIMARY KEY,
		parking_session_id INTEGER       NOT NULL UNIQUE REFERENCES parking_sessions (id),
		total_amount       NUMERIC(12,2) NOT NULL,
		hours_parked       NUMERIC(12,4) NOT NULL,
		rate_applied       NUMERIC(12,2) NOT NULL,
		payment_method     VARCHAR(20)   NOT NULL,
		payment_status     VARCHAR(20)   NOT NULL,
		paid_at            TIMESTAMPTZ,
		operator_id        INTEGER       NOT NULL,
		created_at         TIMESTAMPTZ   NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at         TIMESTAMPTZ   NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate creates the tables and indexes that do not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i, err)
		}
	}
	return nil
}
