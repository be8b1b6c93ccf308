package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/billing-api/internal/domain"
)

const productColumns = `id, org_id, name, sku, barcode, barcode_image, category, brand, hsn, description,
	selling_price, purchase_price, tax_rate, stock, reorder_level, discount, discount_type, status,
	created_at, updated_at`

// productRepository implements ProductRepository on a pgx pool.
type productRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new product repository.
func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &productRepository{pool: pool}
}

func (r *productRepository) List(ctx context.Context, orgID uuid.UUID) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE org_id = $1 ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (domain.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE org_id = $1 AND id = $2`, orgID, id)
	return scanProductRow(row)
}

func (r *productRepository) GetBySKU(ctx context.Context, orgID uuid.UUID, sku string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE org_id = $1 AND lower(sku) = lower($2)`, orgID, sku)
	return scanProductRow(row)
}

func (r *productRepository) GetByBarcode(ctx context.Context, orgID uuid.UUID, barcode string) (domain.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE org_id = $1 AND barcode = $2`, orgID, barcode)
	return scanProductRow(row)
}

func (r *productRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		product.ID, product.OrgID, product.Name, product.SKU, product.Barcode, product.BarcodeImage,
		product.Category, product.Brand, product.HSN, product.Description,
		product.SellingPrice, product.PurchasePrice, product.TaxRate, product.Stock,
		product.ReorderLevel, product.Discount, product.DiscountType, product.Status,
		product.CreatedAt, product.UpdatedAt)
	if err != nil {
		return domain.Product{}, mapProductWriteError(err)
	}
	return product, nil
}

func (r *productRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET
			name = $3, sku = $4, barcode = $5, barcode_image = $6, category = $7, brand = $8,
			hsn = $9, description = $10, selling_price = $11, purchase_price = $12, tax_rate = $13,
			stock = $14, reorder_level = $15, discount = $16, discount_type = $17, status = $18,
			updated_at = $19
		 WHERE org_id = $1 AND id = $2`,
		product.OrgID, product.ID, product.Name, product.SKU, product.Barcode, product.BarcodeImage,
		product.Category, product.Brand, product.HSN, product.Description,
		product.SellingPrice, product.PurchasePrice, product.TaxRate, product.Stock,
		product.ReorderLevel, product.Discount, product.DiscountType, product.Status,
		product.UpdatedAt)
	if err != nil {
		return domain.Product{}, mapProductWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Product{}, ErrNotFound
	}
	return product, nil
}

func (r *productRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) SKUTaken(ctx context.Context, orgID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM products
			WHERE org_id = $1 AND lower(sku) = lower($2) AND id <> $3
		)`, orgID, sku, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check SKU uniqueness: %w", err)
	}
	return taken, nil
}

func (r *productRepository) BarcodeTaken(ctx context.Context, orgID uuid.UUID, barcode string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM products
			WHERE org_id = $1 AND barcode = $2 AND id <> $3
		)`, orgID, barcode, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check barcode uniqueness: %w", err)
	}
	return taken, nil
}

// mapProductWriteError translates unique-violation errors into the typed
// sentinels so callers can report them per row. The partial unique indexes in
// the products migration are the authoritative guard against check-then-write
// races.
func mapProductWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if strings.Contains(pgErr.ConstraintName, "barcode") {
			return ErrDuplicateBarcode
		}
		return ErrDuplicateSKU
	}
	return fmt.Errorf("failed to write product: %w", err)
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.OrgID, &p.Name, &p.SKU, &p.Barcode, &p.BarcodeImage,
		&p.Category, &p.Brand, &p.HSN, &p.Description,
		&p.SellingPrice, &p.PurchasePrice, &p.TaxRate, &p.Stock,
		&p.ReorderLevel, &p.Discount, &p.DiscountType, &p.Status,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to scan product: %w", err)
	}
	return p, nil
}

func scanProductRow(row pgx.Row) (domain.Product, error) {
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, ErrNotFound
		}
		return domain.Product{}, err
	}
	return product, nil
}
