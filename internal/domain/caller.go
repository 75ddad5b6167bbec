package domain

import "github.com/google/uuid"

// Roles issued by the identity provider
const (
	RolePharmacyOwner = "PHARMACY_OWNER"
	RoleClient        = "CLIENT"
)

// Caller is the identity attached to a request by the identity provider
type Caller struct {
	ID   uuid.UUID
	Role string
}
