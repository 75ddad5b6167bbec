package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"medfinder/internal/domain"
	"medfinder/internal/events"
	"medfinder/internal/repository/memory"

	"github.com/google/uuid"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// stepClock returns successive instants one second apart
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type fixture struct {
	store      *memory.Store
	publisher  *recordingPublisher
	clock      *stepClock
	pharmacies *pharmacyService
	medicines  *medicineService
}

func newFixture() *fixture {
	store := memory.NewStore()
	publisher := &recordingPublisher{}
	clock := newStepClock()
	guard := NewOwnershipGuard(store.Pharmacies())

	pharmacies := NewPharmacyService(store.Pharmacies(), guard, publisher, nil).(*pharmacyService)
	pharmacies.now = clock.Now
	medicines := NewMedicineService(store.Medicines(), store.Pharmacies(), guard, publisher, nil).(*medicineService)
	medicines.now = clock.Now

	return &fixture{
		store:      store,
		publisher:  publisher,
		clock:      clock,
		pharmacies: pharmacies,
		medicines:  medicines,
	}
}

func validPharmacyInput() PharmacyInput {
	return PharmacyInput{
		PharmacyName:  "City Care Pharmacy",
		Address:       "12 MG Road",
		ContactNumber: "9876543210",
		Location: LocationInput{
			City:    "Pune",
			Pincode: "411001",
		},
	}
}

func validMedicineInput(name string, quantity int) MedicineInput {
	price := 25.5
	return MedicineInput{
		Name:              name,
		Brand:             "Cipla",
		Category:          domain.CategoryTablet,
		Price:             &price,
		QuantityAvailable: &quantity,
		ExpiryDate:        "2027-06-30",
	}
}

func (f *fixture) mustPharmacy(t *testing.T, owner uuid.UUID, city, pincode string) *domain.Pharmacy {
	t.Helper()

	input := validPharmacyInput()
	input.Location = LocationInput{City: city, Pincode: pincode}

	pharmacy, err := f.pharmacies.Create(context.Background(), owner, input)
	if err != nil {
		t.Fatalf("failed to create pharmacy: %v", err)
	}
	return pharmacy
}

func (f *fixture) mustMedicine(t *testing.T, owner uuid.UUID, name string, quantity int) *domain.Medicine {
	t.Helper()

	medicine, err := f.medicines.Create(context.Background(), owner, validMedicineInput(name, quantity))
	if err != nil {
		t.Fatalf("failed to create medicine: %v", err)
	}
	return medicine
}

func ptr[T any](v T) *T {
	return &v
}

func isForbidden(err error, message string) bool {
	var authErr *domain.AuthorizationError
	return errors.As(err, &authErr) && authErr.Message == message
}

func isNotFound(err error, message string) bool {
	var notFound *domain.NotFoundError
	return errors.As(err, &notFound) && notFound.Message == message
}
