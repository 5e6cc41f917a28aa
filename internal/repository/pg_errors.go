package repository

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("duplicate record")
	// ErrMissingReference reports a write that points at a row that does not exist.
	ErrMissingReference = errors.New("referenced record missing")
	// ErrNotOwner reports a mutation attempted by someone other than the owner.
	ErrNotOwner = errors.New("record not owned by caller")
)

const (
	pqUniqueViolation     pq.ErrorCode = "23505"
	pqForeignKeyViolation pq.ErrorCode = "23503"
)

// translateConstraint maps PostgreSQL integrity errors onto repository sentinels.
func translateConstraint(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	case pqForeignKeyViolation:
		return fmt.Errorf("%w: %s", ErrMissingReference, pqErr.Constraint)
	default:
		return err
	}
}
