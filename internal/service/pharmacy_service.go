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
	"medfinder/internal/validation"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LocationInput is the location part of a pharmacy registration
type LocationInput struct {
	City    string `json:"city" validate:"required"`
	Pincode string `json:"pincode" validate:"required,digits,len=6"`
}

// PharmacyInput is the body of a pharmacy registration
type PharmacyInput struct {
	PharmacyName  string        `json:"pharmacyName" validate:"required,max=200"`
	Address       string        `json:"address" validate:"required,max=500"`
	ContactNumber string        `json:"contactNumber" validate:"required,digits,len=10"`
	Location      LocationInput `json:"location"`
}

func (in *PharmacyInput) normalize() {
	in.PharmacyName = strings.TrimSpace(in.PharmacyName)
	in.Address = strings.TrimSpace(in.Address)
	in.ContactNumber = strings.TrimSpace(in.ContactNumber)
	in.Location.City = strings.TrimSpace(in.Location.City)
	in.Location.Pincode = strings.TrimSpace(in.Location.Pincode)
}

// LocationPatch carries the location fields to change
type LocationPatch struct {
	City    *string `json:"city" validate:"omitnil,notblank"`
	Pincode *string `json:"pincode" validate:"omitnil,digits,len=6"`
}

// PharmacyPatch carries the pharmacy fields to change. Absent fields are kept.
type PharmacyPatch struct {
	PharmacyName  *string        `json:"pharmacyName" validate:"omitnil,notblank,max=200"`
	Address       *string        `json:"address" validate:"omitnil,notblank,max=500"`
	ContactNumber *string        `json:"contactNumber" validate:"omitnil,digits,len=10"`
	Location      *LocationPatch `json:"location"`
}

func (p *PharmacyPatch) normalize() {
	trimPtr(p.PharmacyName)
	trimPtr(p.Address)
	trimPtr(p.ContactNumber)
	if p.Location != nil {
		trimPtr(p.Location.City)
		trimPtr(p.Location.Pincode)
	}
}

func (p *PharmacyPatch) apply(pharmacy *domain.Pharmacy) {
	if p.PharmacyName != nil {
		pharmacy.PharmacyName = *p.PharmacyName
	}
	if p.Address != nil {
		pharmacy.Address = *p.Address
	}
	if p.ContactNumber != nil {
		pharmacy.ContactNumber = *p.ContactNumber
	}
	if p.Location != nil {
		if p.Location.City != nil {
			pharmacy.Location.City = *p.Location.City
		}
		if p.Location.Pincode != nil {
			pharmacy.Location.Pincode = *p.Location.Pincode
		}
	}
}

// PharmacyService defines the interface for pharmacy business logic
type PharmacyService interface {
	Create(ctx context.Context, callerID uuid.UUID, input PharmacyInput) (*domain.Pharmacy, error)
	GetMine(ctx context.Context, callerID uuid.UUID) (*domain.Pharmacy, error)
	GetByID(ctx context.Context, id string) (*domain.Pharmacy, error)
	List(ctx context.Context) ([]*domain.Pharmacy, error)
	// Authorize fetches the pharmacy and checks that callerID may perform action on it
	Authorize(ctx context.Context, callerID uuid.UUID, id string, action Action) (*domain.Pharmacy, error)
	Update(ctx context.Context, callerID uuid.UUID, id string, patch PharmacyPatch) (*domain.Pharmacy, error)
	// ApplyPatch updates a pharmacy already returned by Authorize
	ApplyPatch(ctx context.Context, pharmacy *domain.Pharmacy, patch PharmacyPatch) (*domain.Pharmacy, error)
	Delete(ctx context.Context, callerID uuid.UUID, id string) error
}

type pharmacyService struct {
	pharmacies repository.PharmacyRepository
	guard      *OwnershipGuard
	publisher  events.Publisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewPharmacyService creates a new instance of PharmacyService
func NewPharmacyService(
	pharmacies repository.PharmacyRepository,
	guard *OwnershipGuard,
	publisher events.Publisher,
	logger *zap.Logger,
) PharmacyService {
	publisher, logger = orNop(publisher, logger)
	return &pharmacyService{
		pharmacies: pharmacies,
		guard:      guard,
		publisher:  publisher,
		logger:     logger,
		now:        utcNow,
	}
}

// Create registers the caller's pharmacy. An owner holds at most one.
func (s *pharmacyService) Create(ctx context.Context, callerID uuid.UUID, input PharmacyInput) (*domain.Pharmacy, error) {
	existing, err := s.pharmacies.FindByOwner(ctx, callerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing pharmacy: %w", err)
	}
	if existing != nil {
		return nil, ErrPharmacyExists
	}

	input.normalize()
	if err := validation.Struct(&input); err != nil {
		return nil, err
	}

	now := s.now()
	pharmacy := &domain.Pharmacy{
		ID:            uuid.New(),
		OwnerID:       callerID,
		PharmacyName:  input.PharmacyName,
		Address:       input.Address,
		ContactNumber: input.ContactNumber,
		Location: domain.Location{
			City:    input.Location.City,
			Pincode: input.Location.Pincode,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	// A concurrent registration by the same owner loses on the unique owner index
	if err := s.pharmacies.Create(ctx, pharmacy); err != nil {
		var dup *domain.DuplicateKeyError
		if errors.As(err, &dup) && dup.Field == "owner" {
			return nil, ErrPharmacyExists
		}
		return nil, err
	}

	publish(ctx, s.publisher, s.logger, events.Event{
		Type:       events.PharmacyCreated,
		EntityID:   pharmacy.ID,
		PharmacyID: pharmacy.ID,
		OccurredAt: now,
	})

	return pharmacy, nil
}

func (s *pharmacyService) GetMine(ctx context.Context, callerID uuid.UUID) (*domain.Pharmacy, error) {
	pharmacy, err := s.pharmacies.FindByOwner(ctx, callerID)
	if err != nil {
		return nil, pharmacyLookupError(err)
	}
	return pharmacy, nil
}

func (s *pharmacyService) GetByID(ctx context.Context, id string) (*domain.Pharmacy, error) {
	pharmacyID, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}

	pharmacy, err := s.pharmacies.FindByID(ctx, pharmacyID)
	if err != nil {
		return nil, pharmacyLookupError(err)
	}
	return pharmacy, nil
}

// List returns every pharmacy, newest first
func (s *pharmacyService) List(ctx context.Context) ([]*domain.Pharmacy, error) {
	return s.pharmacies.List(ctx)
}

func (s *pharmacyService) Authorize(ctx context.Context, callerID uuid.UUID, id string, action Action) (*domain.Pharmacy, error) {
	pharmacy, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.guard.AuthorizePharmacy(callerID, pharmacy); err != nil {
		return nil, forbidden(err, action, "pharmacy")
	}
	return pharmacy, nil
}

// Update applies patch to a pharmacy owned by the caller. The owner is immutable.
func (s *pharmacyService) Update(ctx context.Context, callerID uuid.UUID, id string, patch PharmacyPatch) (*domain.Pharmacy, error) {
	pharmacy, err := s.Authorize(ctx, callerID, id, ActionUpdate)
	if err != nil {
		return nil, err
	}

	return s.ApplyPatch(ctx, pharmacy, patch)
}

func (s *pharmacyService) ApplyPatch(ctx context.Context, pharmacy *domain.Pharmacy, patch PharmacyPatch) (*domain.Pharmacy, error) {
	patch.normalize()
	if err := validation.Struct(&patch); err != nil {
		return nil, err
	}

	patch.apply(pharmacy)
	pharmacy.UpdatedAt = s.now()

	if err := s.pharmacies.Update(ctx, pharmacy); err != nil {
		return nil, pharmacyLookupError(err)
	}

	publish(ctx, s.publisher, s.logger, events.Event{
		Type:       events.PharmacyUpdated,
		EntityID:   pharmacy.ID,
		PharmacyID: pharmacy.ID,
		OccurredAt: pharmacy.UpdatedAt,
	})

	return pharmacy, nil
}

// Delete removes a pharmacy owned by the caller together with its medicines
func (s *pharmacyService) Delete(ctx context.Context, callerID uuid.UUID, id string) error {
	pharmacy, err := s.Authorize(ctx, callerID, id, ActionDelete)
	if err != nil {
		return err
	}

	if err := s.pharmacies.Delete(ctx, pharmacy.ID); err != nil {
		return pharmacyLookupError(err)
	}

	publish(ctx, s.publisher, s.logger, events.Event{
		Type:       events.PharmacyDeleted,
		EntityID:   pharmacy.ID,
		PharmacyID: pharmacy.ID,
		OccurredAt: s.now(),
	})

	return nil
}

func pharmacyLookupError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFoundError("Pharmacy not found")
	}
	return err
}

func forbidden(err error, action Action, entity string) error {
	if errors.Is(err, domain.ErrForbidden) {
		return domain.NewAuthorizationError(fmt.Sprintf("Not authorized to %s this %s", action, entity))
	}
	return err
}
