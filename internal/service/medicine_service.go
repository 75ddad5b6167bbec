package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medfinder/internal/domain"
	"medfinder/internal/events"
	"medfinder/internal/repository"
	"medfinder/internal/search"
	"medfinder/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MedicineInput is the body of a new stock entry. The pharmacy is taken
// from the caller, never from the body.
type MedicineInput struct {
	Name              string          `json:"name" validate:"required,max=200"`
	Brand             string          `json:"brand" validate:"required,max=200"`
	Category          domain.Category `json:"category" validate:"required,oneof=Tablet Capsule Syrup Injection Ointment Drops Other"`
	Price             *float64        `json:"price" validate:"required,gte=0"`
	QuantityAvailable *int            `json:"quantityAvailable" validate:"required,gte=0,lte=2147483647"`
	ExpiryDate        string          `json:"expiryDate" validate:"required,date"`
}

func (in *MedicineInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Brand = strings.TrimSpace(in.Brand)
	in.Category = domain.Category(strings.TrimSpace(string(in.Category)))
	in.ExpiryDate = strings.TrimSpace(in.ExpiryDate)
}

// MedicinePatch carries the medicine fields to change. Absent fields are kept
// and the pharmacy reference cannot be changed.
type MedicinePatch struct {
	Name              *string          `json:"name" validate:"omitnil,notblank,max=200"`
	Brand             *string          `json:"brand" validate:"omitnil,notblank,max=200"`
	Category          *domain.Category `json:"category" validate:"omitnil,oneof=Tablet Capsule Syrup Injection Ointment Drops Other"`
	Price             *float64         `json:"price" validate:"omitnil,gte=0"`
	QuantityAvailable *int             `json:"quantityAvailable" validate:"omitnil,gte=0,lte=2147483647"`
	ExpiryDate        *string          `json:"expiryDate" validate:"omitnil,date"`
}

func (p *MedicinePatch) normalize() {
	trimPtr(p.Name)
	trimPtr(p.Brand)
	trimPtr(p.ExpiryDate)
	if p.Category != nil {
		*p.Category = domain.Category(strings.TrimSpace(string(*p.Category)))
	}
}

func (p *MedicinePatch) apply(medicine *domain.Medicine) error {
	if p.Name != nil {
		medicine.Name = *p.Name
	}
	if p.Brand != nil {
		medicine.Brand = *p.Brand
	}
	if p.Category != nil {
		medicine.Category = *p.Category
	}
	if p.Price != nil {
		medicine.Price = *p.Price
	}
	if p.QuantityAvailable != nil {
		medicine.QuantityAvailable = *p.QuantityAvailable
	}
	if p.ExpiryDate != nil {
		expiry, err := validation.ParseDate(*p.ExpiryDate)
		if err != nil {
			return domain.NewValidationError("Please provide a valid expiry date")
		}
		medicine.ExpiryDate = expiry
	}
	return nil
}

// MedicineService defines the interface for medicine business logic
type MedicineService interface {
	Create(ctx context.Context, callerID uuid.UUID, input MedicineInput) (*domain.Medicine, error)
	ListMine(ctx context.Context, callerID uuid.UUID) ([]*domain.Medicine, error)
	GetByID(ctx context.Context, id string) (*domain.Medicine, error)
	Search(ctx context.Context, params search.Params) ([]*domain.Medicine, error)
	// Authorize fetches the medicine and checks that callerID may perform action on it
	Authorize(ctx context.Context, callerID uuid.UUID, id string, action Action) (*domain.Medicine, error)
	Update(ctx context.Context, callerID uuid.UUID, id string, patch MedicinePatch) (*domain.Medicine, error)
	// ApplyPatch updates a medicine already returned by Authorize
	ApplyPatch(ctx context.Context, medicine *domain.Medicine, patch MedicinePatch) (*domain.Medicine, error)
	Delete(ctx context.Context, callerID uuid.UUID, id string) error
}

type medicineService struct {
	medicines  repository.MedicineRepository
	pharmacies repository.PharmacyRepository
	guard      *OwnershipGuard
	publisher  events.Publisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewMedicineService creates a new instance of MedicineService
func NewMedicineService(
	medicines repository.MedicineRepository,
	pharmacies repository.PharmacyRepository,
	guard *OwnershipGuard,
	publisher events.Publisher,
	logger *zap.Logger,
) MedicineService {
	publisher, logger = orNop(publisher, logger)
	return &medicineService{
		medicines:  medicines,
		pharmacies: pharmacies,
		guard:      guard,
		publisher:  publisher,
		logger:     logger,
		now:        utcNow,
	}
}

// Create adds a medicine to the caller's pharmacy
func (s *medicineService) Create(ctx context.Context, callerID uuid.UUID, input MedicineInput) (*domain.Medicine, error) {
	pharmacy, err := s.callerPharmacy(ctx, callerID)
	if err != nil {
		return nil, err
	}

	input.normalize()
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	expiry, err := validation.ParseDate(input.ExpiryDate)
	if err != nil {
		return nil, domain.NewValidationError("Please provide a valid expiry date")
	}

	now := s.now()
	medicine := &domain.Medicine{
		ID:                uuid.New(),
		PharmacyID:        pharmacy.ID,
		Name:              input.Name,
		Brand:             input.Brand,
		Category:          input.Category,
		Price:             *input.Price,
		QuantityAvailable: *input.QuantityAvailable,
		ExpiryDate:        expiry,
		LastUpdated:       now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.medicines.Create(ctx, medicine); err != nil {
		if errors.Is(err, repository.ErrPharmacyNotFound) {
			return nil, ErrPharmacyRequired
		}
		return nil, err
	}
	medicine.Pharmacy = pharmacy.Summary()

	publish(ctx, s.publisher, s.logger, events.Event{
		Type:       events.MedicineCreated,
		EntityID:   medicine.ID,
		PharmacyID: pharmacy.ID,
		OccurredAt: now,
	})

	return medicine, nil
}

// ListMine returns the stock of the caller's pharmacy, newest created first
func (s *medicineService) ListMine(ctx context.Context, callerID uuid.UUID) ([]*domain.Medicine, error) {
	pharmacy, err := s.callerPharmacy(ctx, callerID)
	if err != nil {
		return nil, err
	}

	return s.medicines.ListByPharmacy(ctx, pharmacy.ID)
}

func (s *medicineService) GetByID(ctx context.Context, id string) (*domain.Medicine, error) {
	medicineID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}

	medicine, err := s.medicines.FindByID(ctx, medicineID)
	if err != nil {
		return nil, medicineLookupError(err)
	}
	return medicine, nil
}

// Search returns in-stock medicines matching params, most recently updated first
func (s *medicineService) Search(ctx context.Context, params search.Params) ([]*domain.Medicine, error) {
	filter := search.BuildFilter(params)

	found, err := s.medicines.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	return filter.Refine(found), nil
}

func (s *medicineService) Authorize(ctx context.Context, callerID uuid.UUID, id string, action Action) (*domain.Medicine, error) {
	medicine, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.AuthorizeMedicine(ctx, callerID, medicine); err != nil {
		return nil, forbidden(err, action, "medicine")
	}
	return medicine, nil
}

// Update applies patch to a medicine of the caller's pharmacy and refreshes
// its lastUpdated stamp
func (s *medicineService) Update(ctx context.Context, callerID uuid.UUID, id string, patch MedicinePatch) (*domain.Medicine, error) {
	medicine, err := s.Authorize(ctx, callerID, id, ActionUpdate)
	if err != nil {
		return nil, err
	}

	return s.ApplyPatch(ctx, medicine, patch)
}

func (s *medicineService) ApplyPatch(ctx context.Context, medicine *domain.Medicine, patch MedicinePatch) (*domain.Medicine, error) {
	patch.normalize()
	if err := validation.Struct(&patch); err != nil {
		return nil, err
	}
	if err := patch.apply(medicine); err != nil {
		return nil, err
	}

	now := s.now()
	medicine.LastUpdated = now
	medicine.UpdatedAt = now

	if err := s.medicines.Update(ctx, medicine); err != nil {
		return nil, medicineLookupError(err)
	}

	updated, err := s.medicines.FindByID(ctx, medicine.ID)
	if err != nil {
		return nil, medicineLookupError(err)
	}

	publish(ctx, s.publisher, s.logger, events.Event{
		Type:       events.MedicineUpdated,
		EntityID:   updated.ID,
		PharmacyID: updated.PharmacyID,
		OccurredAt: now,
	})

	return updated, nil
}

func (s *medicineService) Delete(ctx context.Context, callerID uuid.UUID, id string) error {
	medicine, err := s.Authorize(ctx, callerID, id, ActionDelete)
	if err != nil {
		return err
	}

	if err := s.medicines.Delete(ctx, medicine.ID); err != nil {
		return medicineLookupError(err)
	}

	publish(ctx, s.publisher, s.logger, events.Event{
		Type:       events.MedicineDeleted,
		EntityID:   medicine.ID,
		PharmacyID: medicine.PharmacyID,
		OccurredAt: s.now(),
	})

	return nil
}

func (s *medicineService) callerPharmacy(ctx context.Context, callerID uuid.UUID) (*domain.Pharmacy, error) {
	pharmacy, err := s.pharmacies.FindByOwner(ctx, callerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrPharmacyRequired
		}
		return nil, fmt.Errorf("failed to find caller pharmacy: %w", err)
	}
	return pharmacy, nil
}

func medicineLookupError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFoundError("Medicine not found")
	}
	return err
}
