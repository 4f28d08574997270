package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"txreceipt/internal/models"
	"txreceipt/internal/repository"
)

var (
	// ErrInvalidInput wraps validation failures of a save request.
	ErrInvalidInput = errors.New("service: invalid transaction")
	// ErrDuplicateKey is returned when the transaction id is already recorded.
	ErrDuplicateKey = repository.ErrDuplicateKey
	// ErrNotFound is returned when no transaction matches the id.
	ErrNotFound = repository.ErrNotFound
	// ErrStoreUnavailable wraps store failures.
	ErrStoreUnavailable = repository.ErrStoreUnavailable

	// maxAmount is the first value that no longer fits NUMERIC(18,2).
	maxAmount = decimal.New(1, 16)
)

// timestampLayouts are tried in order when parsing client supplied timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006, 3:04:05 PM",
	"01/02/2006 15:04:05",
}

// TransactionStore is the persistence contract used by the services.
type TransactionStore interface {
	Insert(ctx context.Context, tx *models.Transaction) (int64, error)
	FindByTxID(ctx context.Context, txID string) (*models.Transaction, error)
	Exists(ctx context.Context, txID string) (bool, error)
}

// TransactionCache caches immutable transaction rows. Implementations return
// an error on miss.
type TransactionCache interface {
	Save(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, txID string) (*models.Transaction, error)
}

// SaveInput is a transaction write as submitted by clients.
type SaveInput struct {
	Sender        string
	Receiver      string
	Last4         string
	Amount        decimal.Decimal
	FullTimestamp string
	TID           string
}

// TransactionService records and looks up transactions.
type TransactionService struct {
	store  TransactionStore
	cache  TransactionCache
	logger *zap.Logger
}

// NewTransactionService builds TransactionService. cache may be nil.
func NewTransactionService(store TransactionStore, cache TransactionCache, logger *zap.Logger) *TransactionService {
	return &TransactionService{store: store, cache: cache, logger: logger}
}

// Save validates and inserts a transaction, returning the affected row count.
func (s *TransactionService) Save(ctx context.Context, in SaveInput) (int64, error) {
	tx, err := in.transaction()
	if err != nil {
		return 0, err
	}

	affected, err := s.store.Insert(ctx, tx)
	if errors.Is(err, repository.ErrInvalidValue) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err != nil {
		return 0, err
	}

	s.logger.Info("transaction logged", zap.String("tx_id", tx.TxID), zap.Int64("affected_rows", affected))
	return affected, nil
}

// Detail returns a transaction by id, consulting the cache first.
func (s *TransactionService) Detail(ctx context.Context, txID string) (*models.Transaction, error) {
	return lookup(ctx, s.store, s.cache, s.logger, txID)
}

func (in SaveInput) transaction() (*models.Transaction, error) {
	tid := strings.TrimSpace(in.TID)
	if tid == "" {
		return nil, fmt.Errorf("%w: tid is required", ErrInvalidInput)
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amt must not be negative", ErrInvalidInput)
	}
	if in.Amount.Round(2).GreaterThanOrEqual(maxAmount) {
		return nil, fmt.Errorf("%w: amt must be below %s", ErrInvalidInput, maxAmount)
	}

	tx := &models.Transaction{
		Sender:   strings.TrimSpace(in.Sender),
		Receiver: strings.TrimSpace(in.Receiver),
		Account:  strings.TrimSpace(in.Last4),
		Amount:   in.Amount,
		TxID:     tid,
	}
	if ts := strings.TrimSpace(in.FullTimestamp); ts != "" {
		parsed, err := parseTimestamp(ts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		tx.TxDate = &parsed
	}
	return tx, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}

func lookup(ctx context.Context, store TransactionStore, cache TransactionCache, logger *zap.Logger, txID string) (*models.Transaction, error) {
	if cache != nil {
		tx, err := cache.Get(ctx, txID)
		if err == nil {
			return tx, nil
		}
		logger.Debug("transaction cache lookup missed", zap.String("tx_id", txID), zap.Error(err))
	}

	tx, err := store.FindByTxID(ctx, txID)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		if err := cache.Save(ctx, tx); err != nil {
			logger.Warn("failed to cache transaction", zap.String("tx_id", txID), zap.Error(err))
		}
	}
	return tx, nil
}
