// Package migrations holds the storefront database schema and applies it
// statement by statement. Every statement is idempotent so Apply can run at
// each startup.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS store_categories (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS store_products (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		unit_price  BIGINT NOT NULL,
		stock       INTEGER NOT NULL DEFAULT 0,
		taxable     BOOLEAN NOT NULL DEFAULT FALSE,
		category_id TEXT NOT NULL DEFAULT '',
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS store_users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		name          TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked        BOOLEAN NOT NULL DEFAULT FALSE,
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS store_customers (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL DEFAULT '',
		name       TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		address    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS store_orders (
		id          TEXT PRIMARY KEY,
		customer_id TEXT NOT NULL,
		status      TEXT NOT NULL,
		subtotal    BIGINT NOT NULL,
		tax         BIGINT NOT NULL,
		total       BIGINT NOT NULL,
		placed_at   TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS store_order_lines (
		id          TEXT PRIMARY KEY,
		order_id    TEXT NOT NULL REFERENCES store_orders(id) ON DELETE CASCADE,
		product_id  TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		unit_price  BIGINT NOT NULL,
		quantity    INTEGER NOT NULL,
		taxable     BOOLEAN NOT NULL DEFAULT FALSE,
		line_total  BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS store_parameters (
		id            TEXT PRIMARY KEY,
		description   TEXT NOT NULL,
		numeric_value DOUBLE PRECISION NOT NULL DEFAULT 0,
		text_value    TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMPTZ NOT NULL,
		updated_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_store_products_category ON store_products (category_id)`,
	`CREATE INDEX IF NOT EXISTS idx_store_orders_customer ON store_orders (customer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_store_order_lines_order ON store_order_lines (order_id)`,
}

// Count reports how many schema statements Apply will run.
func Count() int { return len(statements) }

// Apply runs every schema statement in order.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i+1, err)
		}
	}
	return nil
}
