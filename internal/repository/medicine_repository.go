package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"medfinder/internal/domain"
	"medfinder/internal/search"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// MedicineRepository defines the interface for medicine data access.
// Every read returns medicines joined with their pharmacy summary.
type MedicineRepository interface {
	Create(ctx context.Context, medicine *domain.Medicine) error
	// Update rewrites the mutable medicine fields. LastUpdated never moves
	// backwards; the stored value is written back into medicine.
	Update(ctx context.Context, medicine *domain.Medicine) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error)
	// ListByPharmacy returns the stock of a pharmacy, newest created first
	ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]*domain.Medicine, error)
	// Search returns in-stock medicines matching filter, most recently updated first
	Search(ctx context.Context, filter search.Filter) ([]*domain.Medicine, error)
}

type medicineRow struct {
	ID                uuid.UUID `db:"id"`
	PharmacyID        uuid.UUID `db:"pharmacy_id"`
	Name              string    `db:"name"`
	Brand             string    `db:"brand"`
	Category          string    `db:"category"`
	Price             float64   `db:"price"`
	QuantityAvailable int       `db:"quantity_available"`
	ExpiryDate        time.Time `db:"expiry_date"`
	LastUpdated       time.Time `db:"last_updated"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`

	PharmacyName  string `db:"pharmacy_name"`
	Address       string `db:"address"`
	ContactNumber string `db:"contact_number"`
	City          string `db:"city"`
	Pincode       string `db:"pincode"`
}

func (r medicineRow) toDomain() *domain.Medicine {
	return &domain.Medicine{
		ID:                r.ID,
		PharmacyID:        r.PharmacyID,
		Name:              r.Name,
		Brand:             r.Brand,
		Category:          domain.Category(r.Category),
		Price:             r.Price,
		QuantityAvailable: r.QuantityAvailable,
		ExpiryDate:        r.ExpiryDate,
		LastUpdated:       r.LastUpdated,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		Pharmacy: &domain.PharmacySummary{
			ID:            r.PharmacyID,
			PharmacyName:  r.PharmacyName,
			Address:       r.Address,
			ContactNumber: r.ContactNumber,
			Location:      domain.Location{City: r.City, Pincode: r.Pincode},
		},
	}
}

const joinedMedicineSelect = `
	SELECT m.id, m.pharmacy_id, m.name, m.brand, m.category, m.price,
	       m.quantity_available, m.expiry_date, m.last_updated, m.created_at, m.updated_at,
	       p.pharmacy_name, p.address, p.contact_number, p.city, p.pincode
	FROM medicines m
	JOIN pharmacies p ON p.id = m.pharmacy_id
`

type medicineRepository struct {
	db *sqlx.DB
}

// NewMedicineRepository creates a new instance of MedicineRepository
func NewMedicineRepository(db *sqlx.DB) MedicineRepository {
	return &medicineRepository{db: db}
}

func (r *medicineRepository) Create(ctx context.Context, medicine *domain.Medicine) error {
	query := `
		INSERT INTO medicines (id, pharmacy_id, name, brand, category, price, quantity_available,
		                       expiry_date, last_updated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		medicine.ID,
		medicine.PharmacyID,
		medicine.Name,
		medicine.Brand,
		string(medicine.Category),
		medicine.Price,
		medicine.QuantityAvailable,
		medicine.ExpiryDate,
		medicine.LastUpdated,
		medicine.CreatedAt,
		medicine.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medicine: %w", translatePgError(err))
	}

	return nil
}

func (r *medicineRepository) Update(ctx context.Context, medicine *domain.Medicine) error {
	query := `
		UPDATE medicines
		SET name = $2, brand = $3, category = $4, price = $5, quantity_available = $6,
		    expiry_date = $7, last_updated = GREATEST(last_updated, $8), updated_at = $8
		WHERE id = $1
		RETURNING last_updated
	`

	var lastUpdated time.Time
	err := r.db.QueryRowxContext(
		ctx,
		query,
		medicine.ID,
		medicine.Name,
		medicine.Brand,
		string(medicine.Category),
		medicine.Price,
		medicine.QuantityAvailable,
		medicine.ExpiryDate,
		medicine.LastUpdated,
	).Scan(&lastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrMedicineNotFound
		}
		return fmt.Errorf("failed to update medicine: %w", translatePgError(err))
	}

	medicine.LastUpdated = lastUpdated
	return nil
}

func (r *medicineRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}

	return requireRow(result, ErrMedicineNotFound)
}

func (r *medicineRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error) {
	var row medicineRow
	if err := r.db.GetContext(ctx, &row, joinedMedicineSelect+` WHERE m.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMedicineNotFound
		}
		return nil, fmt.Errorf("failed to find medicine by ID: %w", err)
	}
	return row.toDomain(), nil
}

func (r *medicineRepository) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]*domain.Medicine, error) {
	query := joinedMedicineSelect + ` WHERE m.pharmacy_id = $1 ORDER BY m.created_at DESC`
	return r.selectMedicines(ctx, query, pharmacyID)
}

// Search pushes the whole filter, including the joined location fields, into one query
func (r *medicineRepository) Search(ctx context.Context, filter search.Filter) ([]*domain.Medicine, error) {
	conditions := []string{"m.quantity_available > 0"}
	args := []interface{}{}
	argIndex := 1

	if filter.Name != "" {
		conditions = append(conditions, fmt.Sprintf("m.name ILIKE $%d", argIndex))
		args = append(args, search.LikePattern(filter.Name))
		argIndex++
	}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("m.category = $%d", argIndex))
		args = append(args, string(filter.Category))
		argIndex++
	}

	if filter.City != "" {
		conditions = append(conditions, fmt.Sprintf("p.city ILIKE $%d", argIndex))
		args = append(args, search.LikePattern(filter.City))
		argIndex++
	}

	if filter.Pincode != "" {
		conditions = append(conditions, fmt.Sprintf("p.pincode = $%d", argIndex))
		args = append(args, filter.Pincode)
	}

	query := joinedMedicineSelect +
		" WHERE " + strings.Join(conditions, " AND ") +
		" ORDER BY m.last_updated DESC"

	return r.selectMedicines(ctx, query, args...)
}

func (r *medicineRepository) selectMedicines(ctx context.Context, query string, args ...interface{}) ([]*domain.Medicine, error) {
	var rows []medicineRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query medicines: %w", err)
	}

	medicines := make([]*domain.Medicine, 0, len(rows))
	for _, row := range rows {
		medicines = append(medicines, row.toDomain())
	}
	return medicines, nil
}
