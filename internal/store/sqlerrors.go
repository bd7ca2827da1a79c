package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrRetriesExceeded is returned when every one of the configured number
// of attempts ends in a serialization conflict.
var ErrRetriesExceeded = errors.New("db tx retries exceeded")

// postgresErrMsgs are substrings of retriable errors that pgx sometimes
// fails to surface as a typed *pgconn.PgError.
var postgresErrMsgs = []string{
	"could not serialize access",
	"current transaction is aborted",
	"deadlock detected",
	"commit unexpectedly resulted in rollback",
}

// MapSQLError interprets a driver-specific error (pgx or modernc sqlite)
// as one of the store's backend-agnostic error types.
func MapSQLError(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return parseSqliteError(sqliteErr)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return parsePostgresError(pgErr)
	}

	for _, msg := range postgresErrMsgs {
		if strings.Contains(err.Error(), msg) {
			return &ErrSerializationError{DBError: err}
		}
	}

	if strings.Contains(err.Error(), "SQLITE_BUSY") {
		return &ErrSerializationError{DBError: err}
	}

	return err
}

func parseSqliteError(sqliteErr *sqlite.Error) error {
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return &ErrUniqueConstraintViolation{DBError: sqliteErr}
	case sqlite3.SQLITE_BUSY:
		return &ErrSerializationError{DBError: sqliteErr}
	default:
		return fmt.Errorf("unknown sqlite error: %w", sqliteErr)
	}
}

func parsePostgresError(pgErr *pgconn.PgError) error {
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &ErrUniqueConstraintViolation{DBError: pgErr}
	case pgerrcode.SerializationFailure, pgerrcode.InFailedSQLTransaction,
		pgerrcode.DeadlockDetected:
		return &ErrSerializationError{DBError: pgErr}
	default:
		return fmt.Errorf("unknown postgres error: %w", pgErr)
	}
}

// ErrUniqueConstraintViolation is a backend-agnostic unique constraint
// violation.
type ErrUniqueConstraintViolation struct {
	DBError error
}

func (e ErrUniqueConstraintViolation) Error() string {
	return fmt.Sprintf("sql unique constraint violation: %v", e.DBError)
}

func (e ErrUniqueConstraintViolation) Unwrap() error { return e.DBError }

// ErrSerializationError is a backend-agnostic transaction-serialization
// conflict; the caller should retry.
type ErrSerializationError struct {
	DBError error
}

func (e ErrSerializationError) Error() string { return e.DBError.Error() }

func (e ErrSerializationError) Unwrap() error { return e.DBError }

// IsSerializationError reports whether err (after MapSQLError) is a
// retriable serialization conflict.
func IsSerializationError(err error) bool {
	var serErr *ErrSerializationError
	return errors.As(err, &serErr)
}
