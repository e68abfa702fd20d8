package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// One runs sql and scans exactly one row into T by column name. A missing row
// is reported as a not-found error naming entity.
func One[T any](ctx context.Context, m *Manager, entity, sql string, args ...interface{}) (*T, error) {
	ctx, cancel := m.WithTimeout(ctx)
	defer cancel()

	q, err := m.Querier(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, Classify(err, entity)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, Classify(err, entity)
	}
	return row, nil
}

// All runs sql and scans every row into T by column name.
func All[T any](ctx context.Context, m *Manager, entity, sql string, args ...interface{}) ([]*T, error) {
	ctx, cancel := m.WithTimeout(ctx)
	defer cancel()

	q, err := m.Querier(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, Classify(err, entity)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, Classify(err, entity)
	}
	return items, nil
}

// Scalar scans a single-column, single-row result such as COUNT(*) or EXISTS.
func Scalar[T any](ctx context.Context, m *Manager, entity, sql string, args ...interface{}) (T, error) {
	var v T
	ctx, cancel := m.WithTimeout(ctx)
	defer cancel()

	q, err := m.Querier(ctx)
	if err != nil {
		return v, err
	}
	if err := q.QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		return v, Classify(err, entity)
	}
	return v, nil
}

// Exec runs a statement and returns the number of affected rows.
func Exec(ctx context.Context, m *Manager, entity, sql string, args ...interface{}) (int64, error) {
	ctx, cancel := m.WithTimeout(ctx)
	defer cancel()

	q, err := m.Querier(ctx)
	if err != nil {
		return 0, err
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, Classify(err, entity)
	}
	return tag.RowsAffected(), nil
}

// Values runs a single-column query and collects the column into a slice.
func Values[T any](ctx context.Context, m *Manager, entity, sql string, args ...interface{}) ([]T, error) {
	ctx, cancel := m.WithTimeout(ctx)
	defer cancel()

	q, err := m.Querier(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, Classify(err, entity)
	}
	values, err := pgx.CollectRows(rows, pgx.RowTo[T])
	if err != nil {
		return nil, Classify(err, entity)
	}
	return values, nil
}
