package ingestion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/repository"
)

// Mode selects how a batch reconciles rows against the catalog.
type Mode string

const (
	// ModeCreate inserts every row as a new record.
	ModeCreate Mode = "create"
	// ModeUpdate only mutates matched records; unmatched rows land in the
	// notFound bucket.
	ModeUpdate Mode = "update"
	// ModeUpsert updates matched records and creates the rest.
	ModeUpsert Mode = "upsert"
)

// ParseMode parses the operation query parameter; empty selects upsert.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case "":
		return ModeUpsert, true
	case ModeCreate, ModeUpdate, ModeUpsert:
		return Mode(raw), true
	default:
		return "", false
	}
}

// Outcome is the terminal classification of one reconciled row.
type Outcome int

const (
	// OutcomeCreated means a new record was written.
	OutcomeCreated Outcome = iota
	// OutcomeUpdated means an existing record was mutated.
	OutcomeUpdated
	// OutcomeNotFound means update mode found no match; this is a distinct
	// bucket, not an error.
	OutcomeNotFound
)

// ReconcileResult reports what happened to one row.
type ReconcileResult struct {
	Outcome Outcome
	Product domain.Product
}

// BarcodeAllocator supplies a generated tenant-unique barcode for creates
// that arrive without one.
type BarcodeAllocator interface {
	Allocate(ctx context.Context, orgID uuid.UUID) (string, error)
}

// ImageRenderer renders the stored barcode display image. It runs whenever a
// barcode is set or changed as part of a write.
type ImageRenderer func(code string) string

// Engine decides per row whether to create, update, or reject, and performs
// the single storage write for accepted rows. The catalog's own uniqueness
// constraints remain the authoritative guard: a write losing a race surfaces
// as an ordinary per-row error.
type Engine struct {
	products repository.ProductRepository
	barcodes BarcodeAllocator
	render   ImageRenderer
}

// NewEngine creates a reconciliation engine.
func NewEngine(products repository.ProductRepository, barcodes BarcodeAllocator, render ImageRenderer) *Engine {
	return &Engine{products: products, barcodes: barcodes, render: render}
}

// Reconcile applies the mode's decision table to one row.
func (e *Engine) Reconcile(ctx context.Context, orgID uuid.UUID, mode Mode, row ProductRow, match *domain.Product) (ReconcileResult, error) {
	switch mode {
	case ModeUpdate:
		if match == nil {
			return ReconcileResult{Outcome: OutcomeNotFound}, nil
		}
		return e.update(ctx, orgID, *match, row)
	case ModeUpsert:
		if match != nil {
			return e.update(ctx, orgID, *match, row)
		}
		return e.create(ctx, orgID, row)
	default: // ModeCreate
		return e.create(ctx, orgID, row)
	}
}

func (e *Engine) create(ctx context.Context, orgID uuid.UUID, row ProductRow) (ReconcileResult, error) {
	if err := e.checkConflicts(ctx, orgID, row, uuid.Nil); err != nil {
		return ReconcileResult{}, err
	}

	name, _ := row.String(FieldName)
	product := domain.NewProduct(orgID, name)
	applyRow(&product, row)

	if !product.HasBarcode() {
		code, err := e.barcodes.Allocate(ctx, orgID)
		if err != nil {
			return ReconcileResult{}, fmt.Errorf("failed to allocate barcode: %w", err)
		}
		product.Barcode = &code
	}
	product.BarcodeImage = e.render(*product.Barcode)

	created, err := e.products.Create(ctx, product)
	if err != nil {
		return ReconcileResult{}, err
	}
	return ReconcileResult{Outcome: OutcomeCreated, Product: created}, nil
}

func (e *Engine) update(ctx context.Context, orgID uuid.UUID, existing domain.Product, row ProductRow) (ReconcileResult, error) {
	if err := e.checkConflicts(ctx, orgID, row, existing.ID); err != nil {
		return ReconcileResult{}, err
	}

	previousBarcode := ""
	if existing.HasBarcode() {
		previousBarcode = *existing.Barcode
	}

	applyRow(&existing, row)
	existing.UpdatedAt = time.Now().UTC()

	if existing.HasBarcode() && *existing.Barcode != previousBarcode {
		existing.BarcodeImage = e.render(*existing.Barcode)
	}

	updated, err := e.products.Update(ctx, existing)
	if err != nil {
		return ReconcileResult{}, err
	}
	return ReconcileResult{Outcome: OutcomeUpdated, Product: updated}, nil
}

// checkConflicts rejects the row when its SKU or barcode is already used by a
// different record of the tenant. excludeID is uuid.Nil for creates.
func (e *Engine) checkConflicts(ctx context.Context, orgID uuid.UUID, row ProductRow, excludeID uuid.UUID) error {
	if sku, ok := row.String(FieldSKU); ok {
		taken, err := e.products.SKUTaken(ctx, orgID, sku, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check SKU uniqueness: %w", err)
		}
		if taken {
			return repository.ErrDuplicateSKU
		}
	}
	if barcode, ok := row.String(FieldBarcode); ok {
		taken, err := e.products.BarcodeTaken(ctx, orgID, barcode, excludeID)
		if err != nil {
			return fmt.Errorf("failed to check barcode uniqueness: %w", err)
		}
		if taken {
			return repository.ErrDuplicateBarcode
		}
	}
	return nil
}

// applyRow copies the row's present fields onto the product. Absent fields
// leave the stored value untouched; the id field is a matching key only.
func applyRow(p *domain.Product, row ProductRow) {
	if v, ok := row.String(FieldName); ok {
		p.Name = v
	}
	if v, ok := row.String(FieldSKU); ok {
		p.SKU = &v
	}
	if v, ok := row.String(FieldBarcode); ok {
		p.Barcode = &v
	}
	if v, ok := row.String(FieldCategory); ok {
		p.Category = v
	}
	if v, ok := row.String(FieldBrand); ok {
		p.Brand = v
	}
	if v, ok := row.String(FieldHSN); ok {
		p.HSN = v
	}
	if v, ok := row.String(FieldDescription); ok {
		p.Description = v
	}
	if v, ok := row.Number(FieldSellingPrice); ok {
		p.SellingPrice = v
	}
	if v, ok := row.Number(FieldPurchasePrice); ok {
		p.PurchasePrice = v
	}
	if v, ok := row.Number(FieldStock); ok {
		p.Stock = v
	}
	if v, ok := row.Number(FieldTaxRate); ok {
		p.TaxRate = v
	}
}
