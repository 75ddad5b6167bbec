package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is the dosage form of a medicine
type Category string

const (
	CategoryTablet    Category = "Tablet"
	CategoryCapsule   Category = "Capsule"
	CategorySyrup     Category = "Syrup"
	CategoryInjection Category = "Injection"
	CategoryOintment  Category = "Ointment"
	CategoryDrops     Category = "Drops"
	CategoryOther     Category = "Other"
)

// Categories lists every accepted category in display order
var Categories = []Category{
	CategoryTablet,
	CategoryCapsule,
	CategorySyrup,
	CategoryInjection,
	CategoryOintment,
	CategoryDrops,
	CategoryOther,
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Medicine represents a stocked medicine of a pharmacy
type Medicine struct {
	ID                uuid.UUID        `json:"id"`
	PharmacyID        uuid.UUID        `json:"pharmacyId"`
	Pharmacy          *PharmacySummary `json:"pharmacy,omitempty"`
	Name              string           `json:"name"`
	Brand             string           `json:"brand"`
	Category          Category         `json:"category"`
	Price             float64          `json:"price"`
	QuantityAvailable int              `json:"quantityAvailable"`
	ExpiryDate        time.Time        `json:"expiryDate"`
	LastUpdated       time.Time        `json:"lastUpdated"`
	CreatedAt         time.Time        `json:"createdAt"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// InStock reports whether the medicine can be offered in public search
func (m *Medicine) InStock() bool {
	return m.QuantityAvailable > 0
}
