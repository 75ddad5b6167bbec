// Package memory is an in-process record store used in development mode and
// in handler tests. It honours the same constraints as the Postgres schema:
// one pharmacy per owner, medicines reference an existing pharmacy, and
// deleting a pharmacy removes its medicines.
package memory

import (
	"sort"
	"sync"

	"medfinder/internal/domain"
	"medfinder/internal/repository"

	"github.com/google/uuid"
)

// Store holds pharmacies and medicines behind one lock so joins are consistent
type Store struct {
	mu         sync.RWMutex
	pharmacies map[uuid.UUID]domain.Pharmacy
	byOwner    map[uuid.UUID]uuid.UUID
	medicines  map[uuid.UUID]domain.Medicine
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		pharmacies: make(map[uuid.UUID]domain.Pharmacy),
		byOwner:    make(map[uuid.UUID]uuid.UUID),
		medicines:  make(map[uuid.UUID]domain.Medicine),
	}
}

// Pharmacies returns the pharmacy repository view of the store
func (s *Store) Pharmacies() repository.PharmacyRepository {
	return &pharmacyRepo{s: s}
}

// Medicines returns the medicine repository view of the store
func (s *Store) Medicines() repository.MedicineRepository {
	return &medicineRepo{s: s}
}

// joined copies a stored medicine and attaches its pharmacy summary.
// Callers hold at least the read lock.
func (s *Store) joined(m domain.Medicine) *domain.Medicine {
	out := m
	if p, ok := s.pharmacies[m.PharmacyID]; ok {
		out.Pharmacy = p.Summary()
	}
	return &out
}

func sortNewestCreated(medicines []*domain.Medicine) {
	sort.SliceStable(medicines, func(i, j int) bool {
		return medicines[i].CreatedAt.After(medicines[j].CreatedAt)
	})
}
