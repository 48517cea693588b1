// Package loader applies the database schema at startup and seeds the rows
// the application cannot run without: the order-number sequence, the single
// company_settings row and a first operator profile.
package loader

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"renta/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	name              TEXT NOT NULL,
	kind              TEXT NOT NULL CHECK (kind IN ('trackable', 'bulk')),
	total_quantity    INTEGER NOT NULL CHECK (total_quantity >= 0),
	price_per_day     TEXT NOT NULL DEFAULT '0',
	replacement_value TEXT NOT NULL DEFAULT '0',
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS assets (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id    INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	serial_number TEXT NOT NULL,
	condition     TEXT NOT NULL DEFAULT '',
	created_at    TEXT NOT NULL,
	UNIQUE (product_id, serial_number)
);

CREATE TABLE IF NOT EXISTS orders (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number      TEXT NOT NULL UNIQUE,
	user_id           INTEGER NOT NULL REFERENCES profiles(id),
	status            TEXT NOT NULL,
	fulfillment       TEXT NOT NULL CHECK (fulfillment IN ('immediate', 'reservation')),
	delivery          TEXT NOT NULL CHECK (delivery IN ('pickup', 'delivery')),
	customer_name     TEXT NOT NULL,
	customer_document TEXT NOT NULL DEFAULT '',
	customer_phone    TEXT NOT NULL DEFAULT '',
	customer_email    TEXT NOT NULL DEFAULT '',
	customer_address  TEXT NOT NULL DEFAULT '',
	start_date        TEXT NOT NULL,
	end_date          TEXT NOT NULL,
	duration_days     INTEGER NOT NULL DEFAULT 1,
	subtotal_per_day  TEXT NOT NULL DEFAULT '0',
	total_amount      TEXT NOT NULL DEFAULT '0',
	signing_token     TEXT NOT NULL UNIQUE,
	signature_image   TEXT,
	signed_at         TEXT,
	signer_ip         TEXT,
	signer_user_agent TEXT,
	picked_up_at      TEXT,
	returned_at       TEXT,
	canceled_at       TEXT,
	created_at        TEXT NOT NULL,
	updated_at        TEXT NOT NULL,
	CHECK (start_date <= end_date)
);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_dates ON orders(start_date, end_date);

CREATE TABLE IF NOT EXISTS order_items (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	order_id          INTEGER NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	product_id        INTEGER NOT NULL REFERENCES products(id),
	product_name      TEXT NOT NULL,
	quantity          INTEGER NOT NULL CHECK (quantity > 0),
	unit_price        TEXT NOT NULL,
	replacement_value TEXT NOT NULL DEFAULT '0'
);
CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id);

CREATE TABLE IF NOT EXISTS profiles (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	email         TEXT NOT NULL UNIQUE,
	display_name  TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	token      TEXT PRIMARY KEY,
	user_id    INTEGER NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
	created_at TEXT NOT NULL,
	expires_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS company_settings (
	id                   INTEGER PRIMARY KEY CHECK (id = 1),
	company_name         TEXT NOT NULL DEFAULT '',
	company_document     TEXT NOT NULL DEFAULT '',
	company_address      TEXT NOT NULL DEFAULT '',
	company_phone        TEXT NOT NULL DEFAULT '',
	logo_url             TEXT NOT NULL DEFAULT '',
	contract_clauses     TEXT NOT NULL DEFAULT '',
	currency_symbol      TEXT NOT NULL DEFAULT '$',
	locale               TEXT NOT NULL DEFAULT 'en',
	default_country_code TEXT NOT NULL DEFAULT '55',
	updated_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS code_sequences (
	name    TEXT PRIMARY KEY,
	last_no INTEGER NOT NULL
);
`

// InitDatabase applies the schema and seeds required rows. Safe to run on
// every startup.
func InitDatabase(db *sqlx.DB) error {
	log.Println("Applying database schema...")
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	log.Println("Schema applied successfully.")

	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to start seed transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)

	if _, err := tx.Exec(`INSERT OR IGNORE INTO code_sequences (name, last_no) VALUES ('OR', 0)`); err != nil {
		return fmt.Errorf("failed to seed order sequence: %w", err)
	}
	if err := database.InitializeSequenceFromMaxOrderNumber(tx); err != nil {
		return fmt.Errorf("failed to initialize order sequence: %w", err)
	}

	if _, err := tx.Exec(`INSERT OR IGNORE INTO company_settings (id, updated_at) VALUES (1, ?)`, now); err != nil {
		return fmt.Errorf("failed to seed company settings: %w", err)
	}

	if err := seedFirstProfile(tx, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return nil
}

// seedFirstProfile creates admin@local/admin when the profiles table is
// empty so a fresh install can log in at all.
func seedFirstProfile(tx *sqlx.Tx, now string) error {
	var count int
	if err := tx.Get(&count, `SELECT COUNT(*) FROM profiles`); err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to count profiles: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default password: %w", err)
	}
	_, err = tx.Exec(`INSERT INTO profiles (email, display_name, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		"admin@local", "Administrator", string(hash), now)
	if err != nil {
		return fmt.Errorf("failed to seed first profile: %w", err)
	}
	log.Println("WARN: Created default profile admin@local with password 'admin'. Change it after first login.")
	return nil
}
