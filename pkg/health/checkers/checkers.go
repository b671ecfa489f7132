// Package checkers adapts infrastructure clients to health.Checker.
package checkers

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/artem13815/hr-crm/pkg/health"
)

// Func turns a ping function into a named checker.
type Func struct {
	name string
	fn   func(ctx context.Context) error
}

func (f Func) Name() string                    { return f.name }
func (f Func) Check(ctx context.Context) error { return f.fn(ctx) }

func New(name string, fn func(ctx context.Context) error) Func {
	return Func{name: name, fn: fn}
}

func Postgres(pool *pgxpool.Pool) health.Checker {
	return New("postgres", pool.Ping)
}

// Redis returns nil for a nil client so an unconfigured redis is skipped.
func Redis(client *redis.Client) health.Checker {
	if client == nil {
		return nil
	}
	return New("redis", func(ctx context.Context) error { return client.Ping(ctx).Err() })
}
