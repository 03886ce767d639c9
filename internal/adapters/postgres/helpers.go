package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kevin07696/authnet-service/internal/domain"
)

const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a Postgres unique constraint failure.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// notFoundOr maps pgx.ErrNoRows to the given domain sentinel and wraps anything else
// as a database error.
func notFoundOr(err error, notFound *domain.DomainError) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return domain.WrapError(domain.ErrorCodeDatabaseError, "query failed", err)
}
