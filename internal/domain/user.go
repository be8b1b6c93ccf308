package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated account scoped to one tenant.
type User struct {
	ID           uuid.UUID `json:"id"`
	OrgID        uuid.UUID `json:"orgId"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser creates a user under the given tenant scope.
func NewUser(orgID uuid.UUID, email, name, passwordHash string) User {
	return User{
		ID:           uuid.New(),
		OrgID:        orgID,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
}
