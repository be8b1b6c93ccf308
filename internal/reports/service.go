// Package reports exposes read-only reporting views over recorded sales.
package reports

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/repository"
)

// Sale is one invoice shaped for the sales report, including the resolved
// customer when the invoice carries one.
type Sale struct {
	ID            uuid.UUID            `json:"id"`
	Date          string               `json:"date"`
	Total         float64              `json:"total"`
	PaymentMethod string               `json:"paymentMethod"`
	Items         []domain.InvoiceItem `json:"items"`
	Subtotal      float64              `json:"subtotal"`
	Tax           float64              `json:"tax"`
	Discount      float64              `json:"discount"`
	Customer      *domain.Customer     `json:"customer"`
}

// Service builds sales reports from the repositories.
type Service struct {
	invoices  repository.InvoiceRepository
	customers repository.CustomerRepository
}

// NewService creates a reports service.
func NewService(invoices repository.InvoiceRepository, customers repository.CustomerRepository) *Service {
	return &Service{invoices: invoices, customers: customers}
}

// Sales returns every recorded sale of the tenant with its customer resolved.
// Invoices whose customer was since deleted report a null customer.
func (s *Service) Sales(ctx context.Context, orgID uuid.UUID) ([]Sale, error) {
	invoices, err := s.invoices.List(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales: %w", err)
	}
	customers, err := s.customers.List(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	byID := make(map[uuid.UUID]domain.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	sales := make([]Sale, 0, len(invoices))
	for _, inv := range invoices {
		method := inv.PaymentMethod
		if method == "" {
			method = "Cash"
		}
		sale := Sale{
			ID:            inv.ID,
			Date:          inv.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			Total:         inv.Total,
			PaymentMethod: method,
			Items:         inv.Items,
			Subtotal:      inv.Subtotal,
			Tax:           inv.Tax,
			Discount:      inv.Discount,
		}
		if inv.CustomerID != nil {
			if c, ok := byID[*inv.CustomerID]; ok {
				sale.Customer = &c
			}
		}
		sales = append(sales, sale)
	}
	return sales, nil
}
