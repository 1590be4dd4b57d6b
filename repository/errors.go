package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken reports a unique-index violation on an email column.
	ErrEmailTaken = errors.New("email already exists")
	// ErrUsernameTaken reports a unique-index violation on users.username.
	ErrUsernameTaken = errors.New("username already exists")
)

const pgUniqueViolation = "23505"

// translateUnique maps a database unique-constraint violation onto the
// package sentinels so handlers can answer 409 instead of a blind 500.
// The constraint is the source of truth; pre-checks in the handlers are
// only there for friendlier messages.
func translateUnique(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return ErrUsernameTaken
		}
		return ErrEmailTaken
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}
