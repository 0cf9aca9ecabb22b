package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"elibrary/api/internal/apperr"
)

// isUniqueViolation reports whether err is a postgres unique-constraint
// failure (code 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isForeignKeyViolation reports whether err is a postgres foreign-key
// failure (code 23503).
func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func conflictOr(err error, message string) error {
	if isUniqueViolation(err) {
		return apperr.Conflict(message)
	}
	return err
}
