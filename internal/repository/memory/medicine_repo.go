package memory

import (
	"context"

	"medfinder/internal/domain"
	"medfinder/internal/repository"
	"medfinder/internal/search"

	"github.com/google/uuid"
)

type medicineRepo struct {
	s *Store
}

func (r *medicineRepo) Create(ctx context.Context, m *domain.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.pharmacies[m.PharmacyID]; !ok {
		return repository.ErrPharmacyNotFound
	}
	if err := checkMedicine(m); err != nil {
		return err
	}
	if _, exists := r.s.medicines[m.ID]; exists {
		return &domain.DuplicateKeyError{Field: "id"}
	}

	stored := *m
	stored.Pharmacy = nil
	r.s.medicines[m.ID] = stored
	return nil
}

func (r *medicineRepo) Update(ctx context.Context, m *domain.Medicine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.medicines[m.ID]
	if !ok {
		return repository.ErrMedicineNotFound
	}
	if err := checkMedicine(m); err != nil {
		return err
	}

	updated := *m
	updated.Pharmacy = nil
	updated.PharmacyID = current.PharmacyID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = m.LastUpdated
	if updated.LastUpdated.Before(current.LastUpdated) {
		updated.LastUpdated = current.LastUpdated
	}

	r.s.medicines[m.ID] = updated
	m.LastUpdated = updated.LastUpdated
	return nil
}

func (r *medicineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.medicines[id]; !ok {
		return repository.ErrMedicineNotFound
	}
	delete(r.s.medicines, id)
	return nil
}

func (r *medicineRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.medicines[id]
	if !ok {
		return nil, repository.ErrMedicineNotFound
	}
	return r.s.joined(m), nil
}

func (r *medicineRepo) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]*domain.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Medicine, 0)
	for _, m := range r.s.medicines {
		if m.PharmacyID == pharmacyID {
			out = append(out, r.s.joined(m))
		}
	}

	sortNewestCreated(out)
	return out, nil
}

// Search evaluates the medicine predicate here and leaves the joined location
// fields to the caller's post-fetch refinement
func (r *medicineRepo) Search(ctx context.Context, filter search.Filter) ([]*domain.Medicine, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Medicine, 0)
	for _, m := range r.s.medicines {
		if filter.MatchesMedicine(&m) {
			out = append(out, r.s.joined(m))
		}
	}

	search.SortByLastUpdated(out)
	return out, nil
}

// checkMedicine mirrors the CHECK constraints of the medicines table
func checkMedicine(m *domain.Medicine) error {
	switch {
	case !m.Category.Valid():
		return domain.NewValidationError("constraint medicines_category_check violated")
	case m.Price < 0:
		return domain.NewValidationError("constraint medicines_price_check violated")
	case m.QuantityAvailable < 0:
		return domain.NewValidationError("constraint medicines_quantity_check violated")
	}
	return nil
}
