package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgUniqueViolation is the postgres SQLSTATE for unique-constraint errors.
const pgUniqueViolation = "23505"

// ErrInvalidDiscount rejects a discount percentage outside [0, 100].
var ErrInvalidDiscount = errors.New("discount percent must be between 0 and 100")

// IsUniqueViolation reports whether err is a uniqueness-constraint failure,
// either as translated by gorm or as a raw postgres error.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
