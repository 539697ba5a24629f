package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"fuel-delivery-service/internal/apperr"
)

// IsDuplicate - signals that the error is a duplicate key violation.
func IsDuplicate(err error) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == "23505"
}

// IsForeignKey - signals that a referenced row does not exist.
func IsForeignKey(err error) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == "23503"
}

// IsNotFound - signals that the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// wrap maps driver errors onto the application taxonomy.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case IsDuplicate(err):
		return fmt.Errorf("%s: %w", op, apperr.ErrConflict)
	case IsForeignKey(err):
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	default:
		return apperr.Persistence(op, err)
	}
}

// rollbackFailed keeps the transaction's own error classifiable next to the rollback failure.
func rollbackFailed(err, rbErr error) error {
	return errors.Join(err, wrap("rollback tx", rbErr))
}
