package db

import (
	"context"
	"database/sql"
	"fmt"

	libdb "txreceipt/libs/db"
)

const schema = `
CREATE TABLE IF NOT EXISTS transactions (
	id         BIGSERIAL PRIMARY KEY,
	sender     TEXT,
	receiver   TEXT,
	account    TEXT,
	amt        NUMERIC(18,2) NOT NULL DEFAULT 0,
	tx_date    TIMESTAMPTZ,
	txid       TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// NewPostgres opens the transaction store pool.
func NewPostgres(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	return libdb.Open(ctx, libdb.Options{DSN: dsn, MaxOpenConns: maxOpen, MaxIdleConns: maxIdle})
}

// Migrate creates the transactions table when it does not exist yet.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("db: migrate transactions: %w", err)
	}
	return nil
}
