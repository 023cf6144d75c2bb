package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes this package classifies.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// Sentinel errors returned by the repositories. Callers match with
// errors.Is and translate to domain errors at the service boundary.
var (
	ErrNotFound            = errors.New("record not found")
	ErrAlreadyExists       = errors.New("record already exists")
	ErrForeignKeyViolation = errors.New("foreign key violation")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrInvalidArgument     = errors.New("invalid argument")
)

// IsNotFoundError reports whether err means the row does not exist.
func IsNotFoundError(err error) bool {
	return err != nil && (errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound))
}

// IsConstraintViolationError reports whether err is any integrity
// constraint failure.
func IsConstraintViolationError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation, pgNotNullViolation:
			return true
		}
	}

	return errors.Is(err, ErrConstraintViolation) ||
		errors.Is(err, ErrAlreadyExists) ||
		errors.Is(err, ErrForeignKeyViolation)
}

// WrapError classifies a pgx error into one of the package sentinels and
// tags it with the failing operation.
func WrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	if IsNotFoundError(err) {
		return fmt.Errorf("%s failed: %w", operation, ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%s failed: %w", operation, ErrAlreadyExists)
		case pgForeignKeyViolation:
			return fmt.Errorf("%s failed: %w", operation, ErrForeignKeyViolation)
		case pgCheckViolation, pgNotNullViolation:
			return fmt.Errorf("%s failed: %w", operation, ErrConstraintViolation)
		}
	}

	return fmt.Errorf("%s failed: %w", operation, err)
}
