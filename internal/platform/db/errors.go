package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/medcore/medcore/internal/platform/apperr"
)

// PostgreSQL SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgInvalidText         = "22P02"
	pgInvalidDatetime     = "22007"
	pgDatetimeOverflow    = "22008"
	pgQueryCanceled       = "57014"
)

// Classify translates driver errors into apperr kinds. entity names the row
// type in not-found and conflict messages. Errors that are already *apperr.Error
// pass through unchanged.
func Classify(err error, entity string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if entity == "" {
		entity = "Record"
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return &apperr.Error{Kind: apperr.KindNotFound, Message: entity + " not found", Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &apperr.Error{Kind: apperr.KindInternal, Code: apperr.CodeDatabaseTimeout, Message: "database request timed out", Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &apperr.Error{Kind: apperr.KindConflict, Code: apperr.CodeDatabaseConstraint,
				Message: entity + " already exists", Err: err}
		case pgForeignKeyViolation:
			return &apperr.Error{Kind: apperr.KindConflict, Code: apperr.CodeDatabaseConstraint,
				Message: entity + " references a missing record or is still referenced by other records", Err: err}
		case pgCheckViolation, pgNotNullViolation, pgInvalidText, pgInvalidDatetime, pgDatetimeOverflow:
			return &apperr.Error{Kind: apperr.KindValidation, Message: "invalid value: " + pgErr.Message, Err: err}
		case pgQueryCanceled:
			return &apperr.Error{Kind: apperr.KindInternal, Code: apperr.CodeDatabaseTimeout, Message: "database request timed out", Err: err}
		}
	}

	return apperr.Internal(err, "database error")
}

// IsUniqueViolation reports whether err is a unique-constraint failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
