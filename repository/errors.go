package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/meinhoongagan/therapy-booking/apperr"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgExclusionViolation  = "23P01"
)

// translate maps gorm and Postgres failures onto the apperr taxonomy.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("%s not found", what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgExclusionViolation:
			return apperr.Conflict("appointment time conflicts with another booking")
		case pgUniqueViolation:
			return apperr.Conflict("%s already exists", what)
		case pgForeignKeyViolation:
			return apperr.BadRequest("%s references a record that does not exist", what)
		}
	}
	return apperr.Storage(err, what)
}
