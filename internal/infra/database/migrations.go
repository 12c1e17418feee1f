package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is idempotent; the (phone, offer_code) index backs the duplicate lookup
// and is deliberately not unique.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS leads (
		id                 UUID PRIMARY KEY,
		first_name         TEXT NOT NULL,
		last_name          TEXT NOT NULL DEFAULT '',
		phone              TEXT NOT NULL,
		email              TEXT NOT NULL DEFAULT '',
		vehicle            TEXT NOT NULL DEFAULT '',
		concern            TEXT NOT NULL DEFAULT '',
		offer_code         TEXT NOT NULL DEFAULT '',
		marketing_opt_in   BOOLEAN NOT NULL DEFAULT FALSE,
		utm                JSONB NOT NULL DEFAULT '{}'::jsonb,
		page               TEXT NOT NULL DEFAULT '',
		client_timestamp   TEXT NOT NULL DEFAULT '',
		ip_address         TEXT NOT NULL DEFAULT '',
		user_agent         TEXT NOT NULL DEFAULT '',
		status             TEXT NOT NULL DEFAULT 'pending',
		coupon_sent        BOOLEAN NOT NULL DEFAULT FALSE,
		coupon_sent_at     TIMESTAMPTZ,
		coupon_data        JSONB,
		booking_redirected BOOLEAN NOT NULL DEFAULT FALSE,
		payment_collected  BOOLEAN NOT NULL DEFAULT FALSE,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_phone_offer ON leads (phone, offer_code)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads (created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads (email)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_status ON leads (status)`,
	`CREATE TABLE IF NOT EXISTS upsells (
		id         UUID PRIMARY KEY,
		product    TEXT NOT NULL,
		offer      TEXT NOT NULL,
		email      TEXT NOT NULL DEFAULT '',
		phone      TEXT NOT NULL DEFAULT '',
		ip_address TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT '',
		timestamp  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		status     TEXT NOT NULL DEFAULT 'viewed'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_upsells_timestamp ON upsells (timestamp DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_upsells_product ON upsells (product)`,
	`CREATE INDEX IF NOT EXISTS idx_upsells_offer ON upsells (offer)`,
}

func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	return nil
}
