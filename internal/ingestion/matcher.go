package ingestion

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/repository"
)

// Matcher finds at most one existing catalog record for a normalized row.
//
// Candidate keys are tried in strict priority order, stopping at the first
// hit: identifier, then barcode, then SKU. The identifier is the least
// ambiguous key (an explicit re-edit of a known record); a barcode is a
// stronger identity signal than a SKU, which is tenant-assigned and more
// casually duplicated during data entry.
type Matcher struct {
	products repository.ProductRepository
}

// NewMatcher creates a matcher over the tenant catalog.
func NewMatcher(products repository.ProductRepository) *Matcher {
	return &Matcher{products: products}
}

// Match returns the matched record or nil when no candidate key hits.
// Lookup failures other than not-found are returned as errors.
func (m *Matcher) Match(ctx context.Context, orgID uuid.UUID, row ProductRow) (*domain.Product, error) {
	if raw, ok := row.String(FieldID); ok {
		if id, err := uuid.Parse(raw); err == nil {
			product, err := m.products.GetByID(ctx, orgID, id)
			if err == nil {
				return &product, nil
			}
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("id lookup failed: %w", err)
			}
		}
	}
	if barcode, ok := row.String(FieldBarcode); ok {
		product, err := m.products.GetByBarcode(ctx, orgID, barcode)
		if err == nil {
			return &product, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("barcode lookup failed: %w", err)
		}
	}
	if sku, ok := row.String(FieldSKU); ok {
		product, err := m.products.GetBySKU(ctx, orgID, sku)
		if err == nil {
			return &product, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("SKU lookup failed: %w", err)
		}
	}
	return nil, nil
}
