package repository

import (
	"errors"
	"fmt"

	"medfinder/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrPharmacyNotFound = fmt.Errorf("pharmacy %w", domain.ErrNotFound)
	ErrMedicineNotFound = fmt.Errorf("medicine %w", domain.ErrNotFound)
)

// Postgres error codes
const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

// constraintFields maps unique constraints to the API field they guard
var constraintFields = map[string]string{
	"pharmacies_owner_id_key": "owner",
	"pharmacies_pkey":         "id",
	"medicines_pkey":          "id",
}

// translatePgError converts constraint violations into domain errors.
// Other errors are returned unchanged.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case uniqueViolation:
		field, ok := constraintFields[pgErr.ConstraintName]
		if !ok {
			field = pgErr.ConstraintName
		}
		return &domain.DuplicateKeyError{Field: field}
	case foreignKeyViolation:
		return ErrPharmacyNotFound
	case checkViolation:
		return domain.NewValidationError(fmt.Sprintf("constraint %s violated", pgErr.ConstraintName))
	}

	return err
}
