package core

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// The services classify every failure into one of four kinds so callers can map
// them to a response without string matching:
//
//	ValidationError — caller-correctable input (bad line list, unknown product,
//	                  insufficient stock). Not retryable.
//	NotFoundError   — a referenced entity is absent. Not retryable.
//	ConflictError   — a uniqueness or reference constraint was violated. Not retryable.
//	TransientError  — lock timeout, serialization failure, connection fault.
//	                  The transaction was rolled back and the call is safe to retry.

// ValidationError reports caller-correctable input problems.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validationf builds a ValidationError with fmt.Sprintf semantics.
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// NotFoundError reports that a referenced entity does not exist.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

// NotFoundf builds a NotFoundError with fmt.Sprintf semantics.
func NotFoundf(format string, args ...any) error {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var v *NotFoundError
	return errors.As(err, &v)
}

// ConflictError reports a duplicate unique key or a restricted reference.
type ConflictError struct {
	msg   string
	cause error
}

func (e *ConflictError) Error() string { return e.msg }
func (e *ConflictError) Unwrap() error { return e.cause }

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var v *ConflictError
	return errors.As(err, &v)
}

// TransientError reports a storage fault that rolled back cleanly and is safe
// to retry: lock wait timeout, serialization failure, deadlock, or a dropped
// connection.
type TransientError struct {
	msg   string
	cause error
}

func (e *TransientError) Error() string { return e.msg }
func (e *TransientError) Unwrap() error { return e.cause }

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var v *TransientError
	return errors.As(err, &v)
}

// Postgres SQLSTATE codes the services care about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgLockNotAvailable    = "55P03"
	pgSerializationFail   = "40001"
	pgDeadlockDetected    = "40P01"
)

// classifyStorageErr wraps a database error into the taxonomy above. Unknown
// errors come back wrapped with context but unclassified; the web layer treats
// those as server faults.
func classifyStorageErr(err error, context string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &ConflictError{msg: fmt.Sprintf("%s: duplicate value for %s", context, pgErr.ConstraintName), cause: err}
		case pgForeignKeyViolation:
			return &ConflictError{msg: fmt.Sprintf("%s: record is referenced by other data", context), cause: err}
		case pgLockNotAvailable, pgSerializationFail, pgDeadlockDetected:
			return &TransientError{msg: fmt.Sprintf("%s: %s", context, pgErr.Message), cause: err}
		}
	}
	if pgconn.SafeToRetry(err) {
		return &TransientError{msg: fmt.Sprintf("%s: connection fault", context), cause: err}
	}
	return fmt.Errorf("%s: %w", context, err)
}
