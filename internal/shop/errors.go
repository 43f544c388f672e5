package shop

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUserNotFound is returned when an order references a missing user.
	ErrUserNotFound = errors.New("referenced user not found")
)

const pgForeignKeyViolation = "23503"

func notFound(entity string, id int64) error {
	return fmt.Errorf("%s %d %w", entity, id, ErrNotFound)
}

func userNotFound(id int64) error {
	return fmt.Errorf("%w: %d", ErrUserNotFound, id)
}

// rowErr maps pgx.ErrNoRows to ErrNotFound for entity/id and wraps the rest.
func rowErr(err error, entity string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound(entity, id)
	}
	return fmt.Errorf("%s %d: %w", entity, id, err)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
