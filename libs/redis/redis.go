package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures a redis client. Zero timeouts take sensible defaults.
type Options struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func (o Options) client() *redis.Options {
	dial, read, write := o.DialTimeout, o.ReadTimeout, o.WriteTimeout
	if dial <= 0 {
		dial = 5 * time.Second
	}
	if read <= 0 {
		read = 3 * time.Second
	}
	if write <= 0 {
		write = read
	}
	return &redis.Options{
		Addr:         strings.TrimSpace(o.Addr),
		Password:     o.Password,
		DB:           o.DB,
		DialTimeout:  dial,
		ReadTimeout:  read,
		WriteTimeout: write,
	}
}

// Connect returns a go-redis client once PING succeeds within the dial timeout.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	ro := opts.client()
	if ro.Addr == "" {
		return nil, errors.New("redis: addr is empty")
	}

	client := redis.NewClient(ro)
	pingCtx, cancel := context.WithTimeout(ctx, ro.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", ro.Addr, err)
	}
	return client, nil
}
