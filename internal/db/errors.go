package db

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// ForeignKeyError translates a foreign key violation on one of the given constraints
// into the matching application error, keeping the driver error as its cause.
// It returns nil when err is not such a violation.
func ForeignKeyError(err error, targets map[string]*apperror.AppError) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.ForeignKeyViolation {
		return nil
	}
	target, ok := targets[pgErr.ConstraintName]
	if !ok {
		return nil
	}
	return apperror.Wrap(err, target.Code, target.Message)
}
