package memory

import (
	"context"
	"sort"

	"medfinder/internal/domain"
	"medfinder/internal/repository"

	"github.com/google/uuid"
)

type pharmacyRepo struct {
	s *Store
}

func (r *pharmacyRepo) Create(ctx context.Context, p *domain.Pharmacy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.byOwner[p.OwnerID]; exists {
		return &domain.DuplicateKeyError{Field: "owner"}
	}
	if _, exists := r.s.pharmacies[p.ID]; exists {
		return &domain.DuplicateKeyError{Field: "id"}
	}

	r.s.pharmacies[p.ID] = *p
	r.s.byOwner[p.OwnerID] = p.ID
	return nil
}

func (r *pharmacyRepo) Update(ctx context.Context, p *domain.Pharmacy) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.pharmacies[p.ID]
	if !ok {
		return repository.ErrPharmacyNotFound
	}

	updated := *p
	updated.OwnerID = current.OwnerID
	updated.CreatedAt = current.CreatedAt
	r.s.pharmacies[p.ID] = updated
	return nil
}

func (r *pharmacyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.pharmacies[id]
	if !ok {
		return repository.ErrPharmacyNotFound
	}

	for medicineID, m := range r.s.medicines {
		if m.PharmacyID == id {
			delete(r.s.medicines, medicineID)
		}
	}
	delete(r.s.byOwner, p.OwnerID)
	delete(r.s.pharmacies, id)
	return nil
}

func (r *pharmacyRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Pharmacy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.pharmacies[id]
	if !ok {
		return nil, repository.ErrPharmacyNotFound
	}
	return &p, nil
}

func (r *pharmacyRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Pharmacy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byOwner[ownerID]
	if !ok {
		return nil, repository.ErrPharmacyNotFound
	}
	p := r.s.pharmacies[id]
	return &p, nil
}

func (r *pharmacyRepo) List(ctx context.Context) ([]*domain.Pharmacy, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.Pharmacy, 0, len(r.s.pharmacies))
	for _, p := range r.s.pharmacies {
		p := p
		out = append(out, &p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
