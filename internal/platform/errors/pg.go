package errors

// Postgres-specific helpers for mapping pgx errors to project ErrorCode

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Common SQLSTATE codes we care about
const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrNotNullViolation    = "23502"
	pgErrCheckViolation      = "23514"

	pgErrSerializationFailure = "40001"
	pgErrDeadlockDetected     = "40P01"
	pgErrCannotConnectNow     = "57P03" // i.e. startup in progress
)

// ExtractPgError returns (*pgconn.PgError, true) if the root cause is a PgError.
func ExtractPgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if stderrs.As(Root(err), &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsSQLState reports whether the error is a Postgres error with the given SQLSTATE code
func IsSQLState(err error, code string) bool {
	pgErr, ok := ExtractPgError(err)
	return ok && pgErr.Code == code
}

// IsDuplicateKey reports whether the error is a unique constraint violation
func IsDuplicateKey(err error) bool { return IsSQLState(err, pgErrUniqueViolation) }

// IsCheckViolation reports whether the error is a check constraint violation
func IsCheckViolation(err error) bool { return IsSQLState(err, pgErrCheckViolation) }

// IsRetryable reports whether a retry of the same operation may succeed
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if stderrs.Is(err, context.DeadlineExceeded) || stderrs.Is(err, context.Canceled) {
		return false
	}
	if IsSQLState(err, pgErrSerializationFailure) ||
		IsSQLState(err, pgErrDeadlockDetected) ||
		IsSQLState(err, pgErrCannotConnectNow) {
		return true
	}
	// connection level failures without a SQLSTATE
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "broken pipe")
}

// MapPgError converts a pgx error into a coded project error
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	pgErr, ok := ExtractPgError(err)
	if !ok {
		return Wrap(err, ErrorCodeDB, "database error")
	}
	switch pgErr.Code {
	case pgErrUniqueViolation:
		return Wrapf(err, ErrorCodeDuplicateKey, "duplicate key: %s", pgErr.ConstraintName)
	case pgErrForeignKeyViolation:
		return Wrapf(err, ErrorCodeInvalidArgument, "references missing row: %s", pgErr.ConstraintName)
	case pgErrNotNullViolation:
		return WithField(Wrap(err, ErrorCodeValidation, "required column missing"), pgErr.ColumnName)
	case pgErrCheckViolation:
		return Wrapf(err, ErrorCodeValidation, "check failed: %s", pgErr.ConstraintName)
	default:
		return Wrap(err, ErrorCodeDB, "database error")
	}
}
