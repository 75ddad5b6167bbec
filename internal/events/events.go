// Package events publishes inventory change notifications.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type identifies what happened to an entity
type Type string

const (
	PharmacyCreated Type = "pharmacy.created"
	PharmacyUpdated Type = "pharmacy.updated"
	PharmacyDeleted Type = "pharmacy.deleted"
	MedicineCreated Type = "medicine.created"
	MedicineUpdated Type = "medicine.updated"
	MedicineDeleted Type = "medicine.deleted"
)

// Event describes a committed change to the directory
type Event struct {
	Type       Type      `json:"type"`
	EntityID   uuid.UUID `json:"entityId"`
	PharmacyID uuid.UUID `json:"pharmacyId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers events to interested consumers
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
