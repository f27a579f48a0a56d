package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound means the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername means the username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrOwnerNotFound means a record write referenced a nonexistent user.
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrProtectedUser means the bootstrap admin was targeted for deletion.
	ErrProtectedUser = errors.New("bootstrap admin cannot be deleted")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
