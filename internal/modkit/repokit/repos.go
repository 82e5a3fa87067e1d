// Package repokit provides common types and helpers for repository implementations
package repokit

import (
	"context"

	"hansard/internal/platform/store"
)

// Queryer is the minimal read and write surface for SQL repos
type Queryer = store.RowQuerier

// RowQuerier is kept for compatibility with existing callers
type RowQuerier = store.RowQuerier

// TxRunner can execute a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows are the result set of a query
	Rows = store.Rows

	// Row is a single row result from a query
	Row = store.Row

	// CommandTag is the result of a command that modifies data
	CommandTag = store.CommandTag
)

// WithTx runs fn inside a transaction using the provided TxRunner
func WithTx(ctx context.Context, tx TxRunner, fn func(q Queryer) error) error {
	return tx.Tx(ctx, fn)
}

// PG exposes a RowQuerier for Postgres without importing a driver
func PG(_ context.Context, q store.RowQuerier) store.RowQuerier { return q }

// TX exposes a TxRunner without importing a driver
func TX(_ context.Context, tx store.TxRunner) store.TxRunner { return tx }

// Savepointer is a tx bound Queryer that can scope work to a savepoint
type Savepointer interface {
	Savepoint(ctx context.Context, fn func(q RowQuerier) error) error
}

// WithSavepoint runs fn inside a savepoint when the Queryer supports one.
// A failure inside fn rolls back to the marker and surfaces the error while
// the surrounding transaction stays usable. Queryers without savepoint
// support run fn directly, so callers keep working against plain fakes
func WithSavepoint(ctx context.Context, q Queryer, fn func(q Queryer) error) error {
	if sp, ok := q.(Savepointer); ok {
		return sp.Savepoint(ctx, fn)
	}
	return fn(q)
}
