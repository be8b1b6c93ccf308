package domain

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceItem is one billed line on an invoice.
type InvoiceItem struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
	TaxRate   float64   `json:"taxRate"`
}

// LineTotal returns the pre-tax amount of the line.
func (i InvoiceItem) LineTotal() float64 {
	return i.Quantity * i.UnitPrice
}

// Invoice is a finalized sale for one tenant.
type Invoice struct {
	ID            uuid.UUID     `json:"id"`
	OrgID         uuid.UUID     `json:"orgId"`
	CustomerID    *uuid.UUID    `json:"customerId,omitempty"`
	Items         []InvoiceItem `json:"items"`
	Subtotal      float64       `json:"subtotal"`
	Tax           float64       `json:"tax"`
	Discount      float64       `json:"discount"`
	Total         float64       `json:"total"`
	PaymentMethod string        `json:"paymentMethod"`
	Status        string        `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// NewInvoice creates an invoice and computes its totals from the items.
func NewInvoice(orgID uuid.UUID, customerID *uuid.UUID, items []InvoiceItem, discount float64, paymentMethod string) Invoice {
	inv := Invoice{
		ID:            uuid.New(),
		OrgID:         orgID,
		CustomerID:    customerID,
		Items:         items,
		Discount:      discount,
		PaymentMethod: paymentMethod,
		Status:        "paid",
		CreatedAt:     time.Now().UTC(),
	}
	for _, item := range items {
		line := item.LineTotal()
		inv.Subtotal += line
		inv.Tax += line * item.TaxRate / 100
	}
	inv.Total = inv.Subtotal + inv.Tax - inv.Discount
	return inv
}
