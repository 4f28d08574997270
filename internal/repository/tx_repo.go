package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"txreceipt/internal/models"
	libdb "txreceipt/libs/db"
)

var (
	// ErrDuplicateKey is returned when a transaction id is already recorded.
	ErrDuplicateKey = errors.New("transaction id already exists")
	// ErrNotFound represents a missing transaction row.
	ErrNotFound = errors.New("transaction not found")
	// ErrInvalidValue is returned when the database rejects a column value.
	ErrInvalidValue = errors.New("transaction value rejected")
	// ErrStoreUnavailable wraps connection and driver failures.
	ErrStoreUnavailable = errors.New("transaction store unavailable")
)

// TransactionRepository persists payment transactions.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository returns repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Insert records a new transaction and returns the number of affected rows.
func (r *TransactionRepository) Insert(ctx context.Context, tx *models.Transaction) (int64, error) {
	const query = `
		INSERT INTO transactions (sender, receiver, account, amt, tx_date, txid)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	res, err := r.db.ExecContext(ctx, query,
		nullIfEmpty(tx.Sender),
		nullIfEmpty(tx.Receiver),
		nullIfEmpty(tx.Account),
		tx.Amount,
		tx.TxDate,
		tx.TxID,
	)
	if err != nil {
		return 0, classify(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, classify(err)
	}
	return affected, nil
}

// FindByTxID fetches a transaction by its external identifier.
func (r *TransactionRepository) FindByTxID(ctx context.Context, txID string) (*models.Transaction, error) {
	const query = `
		SELECT id, sender, receiver, account, amt, tx_date, txid, created_at
		FROM transactions
		WHERE txid = $1
		LIMIT 1
	`
	var (
		tx                        models.Transaction
		sender, receiver, account sql.NullString
		txDate                    sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, txID).Scan(
		&tx.ID,
		&sender,
		&receiver,
		&account,
		&tx.Amount,
		&txDate,
		&tx.TxID,
		&tx.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, classify(err)
	}
	tx.Sender = sender.String
	tx.Receiver = receiver.String
	tx.Account = account.String
	if txDate.Valid {
		t := txDate.Time
		tx.TxDate = &t
	}
	return &tx, nil
}

// Exists reports whether a transaction id is recorded.
func (r *TransactionRepository) Exists(ctx context.Context, txID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM transactions WHERE txid = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, txID).Scan(&exists); err != nil {
		return false, classify(err)
	}
	return exists, nil
}

func classify(err error) error {
	if libdb.IsUniqueViolation(err) {
		return ErrDuplicateKey
	}
	if libdb.IsDataException(err) {
		return fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
