// Package repository defines error types that are reused across the
// stores.  Handlers translate them into HTTP status codes: ErrNotFound into
// 404, ErrDuplicateIdentifier into 409 and ErrTimeout into 504.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicateIdentifier is returned when an insert collides with an
// existing document id.  The existing row is left untouched.
var ErrDuplicateIdentifier = errors.New("duplicate identifier")

// ErrTimeout wraps a store call that ran past its deadline.
var ErrTimeout = errors.New("store timeout")

const (
	mysqlDuplicateEntry = 1062
	pqUniqueViolation   = "23505"
)

// storeErr normalizes driver errors into the sentinels above.
func storeErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	case isDuplicate(err):
		return ErrDuplicateIdentifier
	}
	return err
}

func isDuplicate(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlDuplicateEntry
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pqUniqueViolation
	}
	return false
}
