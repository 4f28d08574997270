package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"txreceipt/internal/models"
)

// ErrCacheMiss is returned when a transaction is not cached.
var ErrCacheMiss = errors.New("transaction cache miss")

// TransactionCache caches immutable transaction rows by txId.
type TransactionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTransactionCache returns redis-backed cache.
func NewTransactionCache(client *redis.Client, ttl time.Duration) *TransactionCache {
	return &TransactionCache{client: client, ttl: ttl}
}

func key(txID string) string {
	return fmt.Sprintf("transactions:detail:%s", txID)
}

// Save caches a transaction.
func (c *TransactionCache) Save(ctx context.Context, tx *models.Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(tx.TxID), data, c.ttl).Err()
}

// Get returns a cached transaction or ErrCacheMiss.
func (c *TransactionCache) Get(ctx context.Context, txID string) (*models.Transaction, error) {
	result, err := c.client.Get(ctx, key(txID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	var tx models.Transaction
	if err := json.Unmarshal(result, &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}
