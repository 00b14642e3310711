package sqlstore

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

type txContextKey struct{}

func withIDB(ctx context.Context, idb bun.IDB) context.Context {
	return context.WithValue(ctx, txContextKey{}, idb)
}

// idbFromContext returns the transaction handle carried by ctx, falling back
// to the shared db. Stores resolve every query through it so work enqueued
// inside RunInTx lands on the same transaction.
func idbFromContext(ctx context.Context, fallback bun.IDB) bun.IDB {
	if idb, ok := ctx.Value(txContextKey{}).(bun.IDB); ok && idb != nil {
		return idb
	}
	return fallback
}

// RunInTx opens one storage transaction and threads it through ctx so every
// store call inside fn joins it. Nested calls reuse the outer transaction.
func (f *RepositoryFactory) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if f == nil || f.db == nil {
		return fmt.Errorf("sqlstore: transaction runner is not configured")
	}
	if fn == nil {
		return fmt.Errorf("sqlstore: transaction body is required")
	}
	if _, ok := ctx.Value(txContextKey{}).(bun.IDB); ok {
		return fn(ctx)
	}
	return f.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(withIDB(ctx, tx))
	})
}
