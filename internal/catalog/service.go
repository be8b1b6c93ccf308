// Package catalog implements the ordinary product CRUD flow. The bulk
// ingestion engine shares its repository and barcode collaborators but runs
// its own reconciliation pipeline.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/ingestion"
	"github.com/ledgerline/billing-api/internal/repository"
)

// ErrInvalidInput is returned for payloads that fail field validation.
var ErrInvalidInput = errors.New("invalid product payload")

// ProductInput is the JSON payload for creating or updating a product.
type ProductInput struct {
	Name          string   `json:"name"`
	SKU           *string  `json:"sku"`
	Barcode       *string  `json:"barcode"`
	Category      string   `json:"category"`
	Brand         string   `json:"brand"`
	HSN           string   `json:"hsn"`
	Description   string   `json:"description"`
	SellingPrice  float64  `json:"sellingPrice"`
	PurchasePrice float64  `json:"purchasePrice"`
	TaxRate       float64  `json:"taxRate"`
	Stock         float64  `json:"stock"`
	ReorderLevel  float64  `json:"reorderLevel"`
	Discount      float64  `json:"discount"`
	DiscountType  string   `json:"discountType"`
	Status        string   `json:"status"`
}

func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if in.SellingPrice < 0 || in.PurchasePrice < 0 || in.Stock < 0 {
		return fmt.Errorf("%w: prices and stock cannot be negative", ErrInvalidInput)
	}
	if in.TaxRate < 0 || in.TaxRate > 100 {
		return fmt.Errorf("%w: tax rate must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

func (in ProductInput) apply(p *domain.Product) {
	p.Name = strings.TrimSpace(in.Name)
	if in.SKU != nil && *in.SKU != "" {
		sku := strings.TrimSpace(*in.SKU)
		p.SKU = &sku
	}
	if in.Barcode != nil && *in.Barcode != "" {
		barcode := strings.TrimSpace(*in.Barcode)
		p.Barcode = &barcode
	}
	p.Category = in.Category
	p.Brand = in.Brand
	p.HSN = in.HSN
	p.Description = in.Description
	p.SellingPrice = in.SellingPrice
	p.PurchasePrice = in.PurchasePrice
	p.TaxRate = in.TaxRate
	p.Stock = in.Stock
	p.ReorderLevel = in.ReorderLevel
	p.Discount = in.Discount
	if in.DiscountType != "" {
		p.DiscountType = in.DiscountType
	}
	if in.Status != "" {
		p.Status = in.Status
	}
}

// Service implements the product CRUD operations for one tenant scope.
type Service struct {
	products repository.ProductRepository
	barcodes ingestion.BarcodeAllocator
	render   ingestion.ImageRenderer
}

// NewService creates a catalog service.
func NewService(products repository.ProductRepository, barcodes ingestion.BarcodeAllocator, render ingestion.ImageRenderer) *Service {
	return &Service{products: products, barcodes: barcodes, render: render}
}

// List returns all products of the tenant.
func (s *Service) List(ctx context.Context, orgID uuid.UUID) ([]domain.Product, error) {
	return s.products.List(ctx, orgID)
}

// Get returns one product by identifier.
func (s *Service) Get(ctx context.Context, orgID, id uuid.UUID) (domain.Product, error) {
	return s.products.GetByID(ctx, orgID, id)
}

// GetByBarcode returns one product by barcode.
func (s *Service) GetByBarcode(ctx context.Context, orgID uuid.UUID, barcode string) (domain.Product, error) {
	return s.products.GetByBarcode(ctx, orgID, barcode)
}

// Create validates the payload, enforces SKU/barcode uniqueness, allocates a
// barcode when none is supplied, and persists the record.
func (s *Service) Create(ctx context.Context, orgID uuid.UUID, in ProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}

	product := domain.NewProduct(orgID, strings.TrimSpace(in.Name))
	in.apply(&product)

	if product.HasSKU() {
		taken, err := s.products.SKUTaken(ctx, orgID, *product.SKU, uuid.Nil)
		if err != nil {
			return domain.Product{}, err
		}
		if taken {
			return domain.Product{}, repository.ErrDuplicateSKU
		}
	}
	if product.HasBarcode() {
		taken, err := s.products.BarcodeTaken(ctx, orgID, *product.Barcode, uuid.Nil)
		if err != nil {
			return domain.Product{}, err
		}
		if taken {
			return domain.Product{}, repository.ErrDuplicateBarcode
		}
	} else {
		code, err := s.barcodes.Allocate(ctx, orgID)
		if err != nil {
			return domain.Product{}, fmt.Errorf("failed to allocate barcode: %w", err)
		}
		product.Barcode = &code
	}
	product.BarcodeImage = s.render(*product.Barcode)

	return s.products.Create(ctx, product)
}

// Update mutates an existing record; SKU/barcode conflict checks exclude the
// record itself.
func (s *Service) Update(ctx context.Context, orgID, id uuid.UUID, in ProductInput) (domain.Product, error) {
	if err := in.validate(); err != nil {
		return domain.Product{}, err
	}

	existing, err := s.products.GetByID(ctx, orgID, id)
	if err != nil {
		return domain.Product{}, err
	}

	previousBarcode := ""
	if existing.HasBarcode() {
		previousBarcode = *existing.Barcode
	}

	in.apply(&existing)
	existing.UpdatedAt = time.Now().UTC()

	if existing.HasSKU() {
		taken, err := s.products.SKUTaken(ctx, orgID, *existing.SKU, id)
		if err != nil {
			return domain.Product{}, err
		}
		if taken {
			return domain.Product{}, repository.ErrDuplicateSKU
		}
	}
	if existing.HasBarcode() {
		taken, err := s.products.BarcodeTaken(ctx, orgID, *existing.Barcode, id)
		if err != nil {
			return domain.Product{}, err
		}
		if taken {
			return domain.Product{}, repository.ErrDuplicateBarcode
		}
		if *existing.Barcode != previousBarcode {
			existing.BarcodeImage = s.render(*existing.Barcode)
		}
	}

	return s.products.Update(ctx, existing)
}

// Delete removes a record from the tenant catalog.
func (s *Service) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	return s.products.Delete(ctx, orgID, id)
}
