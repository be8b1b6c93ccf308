package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a billing counterpart owned by one tenant.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	OrgID     uuid.UUID `json:"orgId"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewCustomer creates a customer for the given tenant.
func NewCustomer(orgID uuid.UUID, name string) Customer {
	now := time.Now().UTC()
	return Customer{
		ID:        uuid.New(),
		OrgID:     orgID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
