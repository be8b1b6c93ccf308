package repository

import (
	"context"
	"errors"

	"github.com/ledgerline/billing-api/internal/domain"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record does not exist within the tenant scope.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateSKU is returned when a write violates the per-tenant SKU uniqueness constraint.
	ErrDuplicateSKU = errors.New("SKU already exists")
	// ErrDuplicateBarcode is returned when a write violates the per-tenant barcode uniqueness constraint.
	ErrDuplicateBarcode = errors.New("barcode already exists")
	// ErrDuplicateEmail is returned when a user registration reuses an email address.
	ErrDuplicateEmail = errors.New("email already registered")
)

// ProductRepository defines the interface for catalog record operations.
// All lookups and mutations are scoped to a single tenant.
type ProductRepository interface {
	List(ctx context.Context, orgID uuid.UUID) ([]domain.Product, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (domain.Product, error)
	GetBySKU(ctx context.Context, orgID uuid.UUID, sku string) (domain.Product, error)
	GetByBarcode(ctx context.Context, orgID uuid.UUID, barcode string) (domain.Product, error)
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	// SKUTaken reports whether another record of the tenant already uses the SKU.
	// excludeID carries the record being updated, or uuid.Nil for creates.
	SKUTaken(ctx context.Context, orgID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error)
	// BarcodeTaken mirrors SKUTaken for barcodes.
	BarcodeTaken(ctx context.Context, orgID uuid.UUID, barcode string, excludeID uuid.UUID) (bool, error)
}

// CustomerRepository defines the interface for customer operations.
type CustomerRepository interface {
	List(ctx context.Context, orgID uuid.UUID) ([]domain.Customer, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (domain.Customer, error)
	Create(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// InvoiceRepository defines the interface for invoice operations.
type InvoiceRepository interface {
	List(ctx context.Context, orgID uuid.UUID) ([]domain.Invoice, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (domain.Invoice, error)
	Create(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error)
	Delete(ctx context.Context, orgID, id uuid.UUID) error
}

// UserRepository defines the interface for account operations.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Create(ctx context.Context, user domain.User) (domain.User, error)
}
