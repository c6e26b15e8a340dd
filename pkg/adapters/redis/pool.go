// Package redis provides a Redis-backed variable pool, for deployments where
// the execution engine publishes node outputs through Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/sluice/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Pool implements ports.VariablePool using Redis. Values are stored in their
// rendered textual form under "<prefix><node>.<path>".
type Pool struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Pool)

// WithTTL sets the expiration for stored values.
func WithTTL(ttl time.Duration) Option {
	return func(p *Pool) {
		p.ttl = ttl
	}
}

// WithPrefix sets the key prefix for stored values.
func WithPrefix(prefix string) Option {
	return func(p *Pool) {
		p.prefix = prefix
	}
}

// New creates a new Redis pool with options.
func New(address, password string, db int, opts ...Option) *Pool {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis pool from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Pool {
	pool := &Pool{
		client: client,
		prefix: "sluice:var:",
		ttl:    0, // No expiration by default
	}

	for _, opt := range opts {
		opt(pool)
	}

	return pool
}

func (p *Pool) key(sel domain.Selector) string {
	return p.prefix + sel.String()
}

// Get resolves a selector. A missing key maps to domain.ErrValueAbsent.
func (p *Pool) Get(ctx context.Context, sel domain.Selector) (domain.Value, error) {
	val, err := p.client.Get(ctx, p.key(sel)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrValueAbsent
		}
		return nil, fmt.Errorf("failed to read from redis: %w", err)
	}
	return domain.Text(val), nil
}

// Set stores the rendered form of a value under the selector.
func (p *Pool) Set(ctx context.Context, sel domain.Selector, val domain.Value) error {
	if val == nil {
		return nil
	}
	if err := p.client.Set(ctx, p.key(sel), val.Render(), p.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write to redis: %w", err)
	}
	return nil
}

// Delete removes the value under the selector.
func (p *Pool) Delete(ctx context.Context, sel domain.Selector) error {
	if err := p.client.Del(ctx, p.key(sel)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}
