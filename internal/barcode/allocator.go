// Package barcode provides tenant-unique barcode allocation and rendering of
// the stored barcode display image.
package barcode

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
)

// maxAllocateAttempts bounds the retry loop; collisions on 12 random digits
// are rare enough that hitting the cap indicates something is wrong upstream.
const maxAllocateAttempts = 25

// ErrExhausted is returned when the allocator cannot find a free code.
var ErrExhausted = errors.New("could not allocate a unique barcode")

// TakenFunc reports whether a barcode is already used within the tenant.
type TakenFunc func(ctx context.Context, orgID uuid.UUID, code string) (bool, error)

// Allocator hands out random 12-digit barcodes that are unused within a tenant.
type Allocator struct {
	taken TakenFunc
}

// NewAllocator creates an allocator backed by the given uniqueness probe.
func NewAllocator(taken TakenFunc) *Allocator {
	return &Allocator{taken: taken}
}

// Allocate returns a 12-digit numeric code unused by any record of the tenant.
func (a *Allocator) Allocate(ctx context.Context, orgID uuid.UUID) (string, error) {
	for attempt := 0; attempt < maxAllocateAttempts; attempt++ {
		code := fmt.Sprintf("%012d", 100000000000+rand.Int63n(900000000000))
		exists, err := a.taken(ctx, orgID, code)
		if err != nil {
			return "", fmt.Errorf("failed to check barcode availability: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrExhausted
}
