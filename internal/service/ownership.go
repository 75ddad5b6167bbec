package service

import (
	"context"
	"errors"
	"fmt"

	"medfinder/internal/domain"
	"medfinder/internal/repository"

	"github.com/google/uuid"
)

// Action names the mutation a caller attempts on an owned record
type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// OwnershipGuard decides whether a caller may mutate a record. A record is
// owned by the owner of its pharmacy; medicines resolve their pharmacy
// through the pharmacy repository.
type OwnershipGuard struct {
	pharmacies repository.PharmacyRepository
}

// NewOwnershipGuard creates a guard resolving pharmacies through pharmacies
func NewOwnershipGuard(pharmacies repository.PharmacyRepository) *OwnershipGuard {
	return &OwnershipGuard{pharmacies: pharmacies}
}

// AuthorizePharmacy returns domain.ErrForbidden unless callerID owns pharmacy
func (g *OwnershipGuard) AuthorizePharmacy(callerID uuid.UUID, pharmacy *domain.Pharmacy) error {
	if pharmacy == nil || callerID == uuid.Nil || pharmacy.OwnerID != callerID {
		return domain.ErrForbidden
	}
	return nil
}

// AuthorizeMedicine returns domain.ErrForbidden unless callerID owns the
// pharmacy medicine belongs to. A medicine whose pharmacy no longer exists
// is owned by nobody.
func (g *OwnershipGuard) AuthorizeMedicine(ctx context.Context, callerID uuid.UUID, medicine *domain.Medicine) error {
	if medicine == nil {
		return domain.ErrForbidden
	}

	pharmacy, err := g.pharmacies.FindByID(ctx, medicine.PharmacyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("failed to resolve owning pharmacy: %w", err)
	}

	return g.AuthorizePharmacy(callerID, pharmacy)
}
