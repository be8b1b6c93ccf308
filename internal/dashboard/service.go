// Package dashboard aggregates sales and catalog data into one snapshot for
// the UI overview page.
package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/repository"
)

// Sale is an invoice shaped for the dashboard.
type Sale struct {
	ID            uuid.UUID            `json:"id"`
	Date          string               `json:"date"`
	Total         float64              `json:"total"`
	PaymentMethod string               `json:"paymentMethod"`
	Items         []domain.InvoiceItem `json:"items"`
	Subtotal      float64              `json:"subtotal"`
	Tax           float64              `json:"tax"`
	Discount      float64              `json:"discount"`
}

// StockItem is a product shaped for the dashboard.
type StockItem struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Stock    float64   `json:"stock"`
	Price    float64   `json:"price"`
	SKU      string    `json:"sku,omitempty"`
	Category string    `json:"category,omitempty"`
}

// Snapshot is the dashboard payload.
type Snapshot struct {
	Sales    []Sale      `json:"sales"`
	Products []StockItem `json:"products"`
}

// Service builds dashboard snapshots from the repositories.
type Service struct {
	invoices repository.InvoiceRepository
	products repository.ProductRepository
}

// NewService creates a dashboard service.
func NewService(invoices repository.InvoiceRepository, products repository.ProductRepository) *Service {
	return &Service{invoices: invoices, products: products}
}

// Snapshot fetches and shapes the tenant's sales and products.
func (s *Service) Snapshot(ctx context.Context, orgID uuid.UUID) (Snapshot, error) {
	invoices, err := s.invoices.List(ctx, orgID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load sales: %w", err)
	}
	products, err := s.products.List(ctx, orgID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load products: %w", err)
	}

	snapshot := Snapshot{Sales: make([]Sale, 0, len(invoices)), Products: make([]StockItem, 0, len(products))}
	for _, inv := range invoices {
		method := inv.PaymentMethod
		if method == "" {
			method = "Cash"
		}
		snapshot.Sales = append(snapshot.Sales, Sale{
			ID:            inv.ID,
			Date:          inv.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Total:         inv.Total,
			PaymentMethod: method,
			Items:         inv.Items,
			Subtotal:      inv.Subtotal,
			Tax:           inv.Tax,
			Discount:      inv.Discount,
		})
	}
	for _, p := range products {
		item := StockItem{
			ID:       p.ID,
			Name:     p.Name,
			Stock:    p.Stock,
			Price:    p.SellingPrice,
			Category: p.Category,
		}
		if p.HasSKU() {
			item.SKU = *p.SKU
		}
		snapshot.Products = append(snapshot.Products, item)
	}
	return snapshot, nil
}
