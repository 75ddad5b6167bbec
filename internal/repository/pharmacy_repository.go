package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"medfinder/internal/domain"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PharmacyRepository defines the interface for pharmacy data access
type PharmacyRepository interface {
	// Create stores a new pharmacy. A second pharmacy for the same owner fails
	// with *domain.DuplicateKeyError on field "owner".
	Create(ctx context.Context, pharmacy *domain.Pharmacy) error
	Update(ctx context.Context, pharmacy *domain.Pharmacy) error
	// Delete removes the pharmacy and every medicine it stocks
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Pharmacy, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Pharmacy, error)
	List(ctx context.Context) ([]*domain.Pharmacy, error)
}

type pharmacyRow struct {
	ID            uuid.UUID `db:"id"`
	OwnerID       uuid.UUID `db:"owner_id"`
	PharmacyName  string    `db:"pharmacy_name"`
	Address       string    `db:"address"`
	ContactNumber string    `db:"contact_number"`
	City          string    `db:"city"`
	Pincode       string    `db:"pincode"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r pharmacyRow) toDomain() *domain.Pharmacy {
	return &domain.Pharmacy{
		ID:            r.ID,
		OwnerID:       r.OwnerID,
		PharmacyName:  r.PharmacyName,
		Address:       r.Address,
		ContactNumber: r.ContactNumber,
		Location:      domain.Location{City: r.City, Pincode: r.Pincode},
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

const pharmacyColumns = `id, owner_id, pharmacy_name, address, contact_number, city, pincode, created_at, updated_at`

type pharmacyRepository struct {
	db *sqlx.DB
}

// NewPharmacyRepository creates a new instance of PharmacyRepository
func NewPharmacyRepository(db *sqlx.DB) PharmacyRepository {
	return &pharmacyRepository{db: db}
}

// Create inserts a new pharmacy using parameterized queries
func (r *pharmacyRepository) Create(ctx context.Context, pharmacy *domain.Pharmacy) error {
	query := `
		INSERT INTO pharmacies (` + pharmacyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		pharmacy.ID,
		pharmacy.OwnerID,
		pharmacy.PharmacyName,
		pharmacy.Address,
		pharmacy.ContactNumber,
		pharmacy.Location.City,
		pharmacy.Location.Pincode,
		pharmacy.CreatedAt,
		pharmacy.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create pharmacy: %w", translatePgError(err))
	}

	return nil
}

// Update rewrites the mutable pharmacy fields. The owner never changes.
func (r *pharmacyRepository) Update(ctx context.Context, pharmacy *domain.Pharmacy) error {
	query := `
		UPDATE pharmacies
		SET pharmacy_name = $2, address = $3, contact_number = $4,
		    city = $5, pincode = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		pharmacy.ID,
		pharmacy.PharmacyName,
		pharmacy.Address,
		pharmacy.ContactNumber,
		pharmacy.Location.City,
		pharmacy.Location.Pincode,
		pharmacy.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update pharmacy: %w", translatePgError(err))
	}

	return requireRow(result, ErrPharmacyNotFound)
}

func (r *pharmacyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM pharmacies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pharmacy: %w", err)
	}

	return requireRow(result, ErrPharmacyNotFound)
}

func (r *pharmacyRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Pharmacy, error) {
	return r.findOne(ctx, `SELECT `+pharmacyColumns+` FROM pharmacies WHERE id = $1`, id)
}

func (r *pharmacyRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Pharmacy, error) {
	return r.findOne(ctx, `SELECT `+pharmacyColumns+` FROM pharmacies WHERE owner_id = $1`, ownerID)
}

// List returns every pharmacy, newest first
func (r *pharmacyRepository) List(ctx context.Context) ([]*domain.Pharmacy, error) {
	var rows []pharmacyRow
	query := `SELECT ` + pharmacyColumns + ` FROM pharmacies ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list pharmacies: %w", err)
	}

	pharmacies := make([]*domain.Pharmacy, 0, len(rows))
	for _, row := range rows {
		pharmacies = append(pharmacies, row.toDomain())
	}
	return pharmacies, nil
}

func (r *pharmacyRepository) findOne(ctx context.Context, query string, arg interface{}) (*domain.Pharmacy, error) {
	var row pharmacyRow
	if err := r.db.GetContext(ctx, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPharmacyNotFound
		}
		return nil, fmt.Errorf("failed to find pharmacy: %w", err)
	}
	return row.toDomain(), nil
}

func requireRow(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
