package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product represents one catalog record owned by a single tenant.
//
// SKU and Barcode are optional; when present they are unique within the
// owning tenant. The record identifier never changes once created.
type Product struct {
	ID            uuid.UUID `json:"id"`
	OrgID         uuid.UUID `json:"orgId"`
	Name          string    `json:"name"`
	SKU           *string   `json:"sku,omitempty"`
	Barcode       *string   `json:"barcode,omitempty"`
	BarcodeImage  string    `json:"barcodeImage,omitempty"`
	Category      string    `json:"category,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	HSN           string    `json:"hsn,omitempty"`
	Description   string    `json:"description,omitempty"`
	SellingPrice  float64   `json:"sellingPrice"`
	PurchasePrice float64   `json:"purchasePrice"`
	TaxRate       float64   `json:"taxRate"`
	Stock         float64   `json:"stock"`
	ReorderLevel  float64   `json:"reorderLevel"`
	Discount      float64   `json:"discount"`
	DiscountType  string    `json:"discountType,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// NewProduct creates a product for the given tenant with a fresh identifier.
func NewProduct(orgID uuid.UUID, name string) Product {
	now := time.Now().UTC()
	return Product{
		ID:           uuid.New(),
		OrgID:        orgID,
		Name:         name,
		DiscountType: "percentage",
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// HasSKU reports whether the product carries a non-empty SKU.
func (p Product) HasSKU() bool {
	return p.SKU != nil && *p.SKU != ""
}

// HasBarcode reports whether the product carries a non-empty barcode.
func (p Product) HasBarcode() bool {
	return p.Barcode != nil && *p.Barcode != ""
}
