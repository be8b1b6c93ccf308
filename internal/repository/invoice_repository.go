package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/billing-api/internal/domain"
)

// invoiceRepository implements InvoiceRepository on a pgx pool. Line items are
// stored as a JSONB document alongside the computed totals.
type invoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository creates a new invoice repository.
func NewInvoiceRepository(pool *pgxpool.Pool) InvoiceRepository {
	return &invoiceRepository{pool: pool}
}

func (r *invoiceRepository) List(ctx context.Context, orgID uuid.UUID) ([]domain.Invoice, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, org_id, customer_id, items, subtotal, tax, discount, total, payment_method, status, created_at
		 FROM invoices WHERE org_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (domain.Invoice, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, org_id, customer_id, items, subtotal, tax, discount, total, payment_method, status, created_at
		 FROM invoices WHERE org_id = $1 AND id = $2`, orgID, id)
	invoice, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Invoice{}, ErrNotFound
		}
		return domain.Invoice{}, err
	}
	return invoice, nil
}

func (r *invoiceRepository) Create(ctx context.Context, invoice domain.Invoice) (domain.Invoice, error) {
	itemsJSON, err := json.Marshal(invoice.Items)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("failed to marshal invoice items: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO invoices (id, org_id, customer_id, items, subtotal, tax, discount, total, payment_method, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		invoice.ID, invoice.OrgID, invoice.CustomerID, itemsJSON,
		invoice.Subtotal, invoice.Tax, invoice.Discount, invoice.Total,
		invoice.PaymentMethod, invoice.Status, invoice.CreatedAt)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("failed to create invoice: %w", err)
	}
	return invoice, nil
}

func (r *invoiceRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM invoices WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row) (domain.Invoice, error) {
	var (
		invoice   domain.Invoice
		itemsJSON []byte
	)
	err := row.Scan(&invoice.ID, &invoice.OrgID, &invoice.CustomerID, &itemsJSON,
		&invoice.Subtotal, &invoice.Tax, &invoice.Discount, &invoice.Total,
		&invoice.PaymentMethod, &invoice.Status, &invoice.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Invoice{}, err
		}
		return domain.Invoice{}, fmt.Errorf("failed to scan invoice: %w", err)
	}
	if len(itemsJSON) > 0 {
		if err := json.Unmarshal(itemsJSON, &invoice.Items); err != nil {
			return domain.Invoice{}, fmt.Errorf("failed to unmarshal invoice items: %w", err)
		}
	}
	return invoice, nil
}
