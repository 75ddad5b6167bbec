package domain

import (
	"time"

	"github.com/google/uuid"
)

// Location is the postal location of a pharmacy
type Location struct {
	City    string `json:"city"`
	Pincode string `json:"pincode"`
}

// Pharmacy represents a pharmacy registered by an owner
type Pharmacy struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner"`
	PharmacyName  string    `json:"pharmacyName"`
	Address       string    `json:"address"`
	ContactNumber string    `json:"contactNumber"`
	Location      Location  `json:"location"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PharmacySummary is the subset of pharmacy fields joined onto medicine reads
type PharmacySummary struct {
	ID            uuid.UUID `json:"id"`
	PharmacyName  string    `json:"pharmacyName"`
	Address       string    `json:"address"`
	ContactNumber string    `json:"contactNumber"`
	Location      Location  `json:"location"`
}

// Summary returns the joined view of the pharmacy
func (p *Pharmacy) Summary() *PharmacySummary {
	return &PharmacySummary{
		ID:            p.ID,
		PharmacyName:  p.PharmacyName,
		Address:       p.Address,
		ContactNumber: p.ContactNumber,
		Location:      p.Location,
	}
}
