package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq" // For pq.Error
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It wraps the driver error so callers can still inspect it.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)

// Unique constraint names, shared by the SQL schema and the in-memory store.
const (
	ConstraintUserEmail            = "users_email_key"
	ConstraintUserMobilePhone      = "users_mobile_phone_key"
	ConstraintClientIdentification = "clients_owner_identification_key"
)

// SQLExecutor is satisfied by *sqlx.DB and *sqlx.Tx, so repository methods
// can run inside a transaction or directly on the pool.
type SQLExecutor interface {
	sqlx.ExtContext
}

func duplicateKeyError(message, constraint string) error {
	return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, message, constraint)
}

// IsConstraintViolation reports whether err is a duplicate key error on the named constraint.
func IsConstraintViolation(err error, constraint string) bool {
	return errors.Is(err, ErrDuplicateKey) && strings.Contains(err.Error(), "(constraint: "+constraint+")")
}

// wrapDBError maps driver errors onto the repository sentinels.
func wrapDBError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return duplicateKeyError(pqErr.Message, pqErr.Constraint)
	}
	return fmt.Errorf("%w: %s: %w", ErrDatabaseError, op, err)
}

var errForeignKey = errors.New("insert or update violates foreign key constraint clients_user_id_fkey")
