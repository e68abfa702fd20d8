package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type contextKey string

const txKey contextKey = "db_tx"

// TxFromContext returns the transaction started by InTx, if any.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey).(pgx.Tx)
	return tx
}

// Querier returns the transaction in ctx, or the shared pool.
func (m *Manager) Querier(ctx context.Context) (Querier, error) {
	if tx := TxFromContext(ctx); tx != nil {
		return tx, nil
	}
	pool, err := m.Acquire(ctx)
	if err != nil {
		return nil, Classify(err, "")
	}
	return pool, nil
}

// InTx runs fn inside one transaction. Repositories called with the derived
// context join it. Nested calls reuse the outer transaction.
func (m *Manager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	pool, err := m.Acquire(ctx)
	if err != nil {
		return Classify(err, "")
	}
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// Transactor runs fn inside one transaction. *Manager implements it.
type Transactor interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
