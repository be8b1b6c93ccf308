package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/repository"
)

type memProducts struct {
	items map[uuid.UUID]domain.Product
}

func newMemProducts() *memProducts {
	return &memProducts{items: make(map[uuid.UUID]domain.Product)}
}

func (m *memProducts) List(_ context.Context, orgID uuid.UUID) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.items {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) GetByID(_ context.Context, orgID, id uuid.UUID) (domain.Product, error) {
	p, ok := m.items[id]
	if !ok || p.OrgID != orgID {
		return domain.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (m *memProducts) GetBySKU(_ context.Context, orgID uuid.UUID, sku string) (domain.Product, error) {
	for _, p := range m.items {
		if p.OrgID == orgID && p.HasSKU() && strings.EqualFold(*p.SKU, sku) {
			return p, nil
		}
	}
	return domain.Product{}, repository.ErrNotFound
}

func (m *memProducts) GetByBarcode(_ context.Context, orgID uuid.UUID, barcode string) (domain.Product, error) {
	for _, p := range m.items {
		if p.OrgID == orgID && p.HasBarcode() && *p.Barcode == barcode {
			return p, nil
		}
	}
	return domain.Product{}, repository.ErrNotFound
}

func (m *memProducts) Create(_ context.Context, product domain.Product) (domain.Product, error) {
	m.items[product.ID] = product
	return product, nil
}

func (m *memProducts) Update(_ context.Context, product domain.Product) (domain.Product, error) {
	if _, ok := m.items[product.ID]; !ok {
		return domain.Product{}, repository.ErrNotFound
	}
	m.items[product.ID] = product
	return product, nil
}

func (m *memProducts) Delete(_ context.Context, orgID, id uuid.UUID) error {
	p, ok := m.items[id]
	if !ok || p.OrgID != orgID {
		return repository.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memProducts) SKUTaken(_ context.Context, orgID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error) {
	for _, p := range m.items {
		if p.OrgID == orgID && p.ID != excludeID && p.HasSKU() && strings.EqualFold(*p.SKU, sku) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memProducts) BarcodeTaken(_ context.Context, orgID uuid.UUID, barcode string, excludeID uuid.UUID) (bool, error) {
	for _, p := range m.items {
		if p.OrgID == orgID && p.ID != excludeID && p.HasBarcode() && *p.Barcode == barcode {
			return true, nil
		}
	}
	return false, nil
}

type seqAllocator struct{ next int }

func (a *seqAllocator) Allocate(context.Context, uuid.UUID) (string, error) {
	a.next++
	return fmt.Sprintf("%012d", 900000000000+a.next), nil
}

func testService(products *memProducts) *Service {
	return NewService(products, &seqAllocator{}, func(code string) string { return "img:" + code })
}

func strPtr(s string) *string { return &s }

func TestCreateRequiresName(t *testing.T) {
	svc := testService(newMemProducts())
	_, err := svc.Create(context.Background(), uuid.New(), ProductInput{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestCreateAllocatesBarcodeWhenAbsent(t *testing.T) {
	svc := testService(newMemProducts())
	p, err := svc.Create(context.Background(), uuid.New(), ProductInput{Name: "Soap"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if !p.HasBarcode() {
		t.Fatal("expected an allocated barcode")
	}
	if p.BarcodeImage != "img:"+*p.Barcode {
		t.Errorf("image = %q, want rendered for allocated code", p.BarcodeImage)
	}
}

func TestCreateRejectsDuplicateSKU(t *testing.T) {
	products := newMemProducts()
	orgID := uuid.New()
	existing := domain.NewProduct(orgID, "Existing")
	existing.SKU = strPtr("ABC-1")
	products.items[existing.ID] = existing

	svc := testService(products)
	_, err := svc.Create(context.Background(), orgID, ProductInput{Name: "Soap", SKU: strPtr("abc-1")})
	if !errors.Is(err, repository.ErrDuplicateSKU) {
		t.Errorf("err = %v, want ErrDuplicateSKU", err)
	}
}

func TestCreateAllowsSameSKUAcrossTenants(t *testing.T) {
	products := newMemProducts()
	foreign := domain.NewProduct(uuid.New(), "Foreign")
	foreign.SKU = strPtr("ABC-1")
	products.items[foreign.ID] = foreign

	svc := testService(products)
	if _, err := svc.Create(context.Background(), uuid.New(), ProductInput{Name: "Soap", SKU: strPtr("ABC-1")}); err != nil {
		t.Errorf("another tenant's SKU must not conflict: %v", err)
	}
}

func TestUpdateKeepsOwnSKU(t *testing.T) {
	products := newMemProducts()
	orgID := uuid.New()
	existing := domain.NewProduct(orgID, "Old Name")
	existing.SKU = strPtr("ABC-1")
	existing.Barcode = strPtr("111111111111")
	existing.BarcodeImage = "img:111111111111"
	products.items[existing.ID] = existing

	svc := testService(products)
	updated, err := svc.Update(context.Background(), orgID, existing.ID,
		ProductInput{Name: "New Name", SKU: strPtr("ABC-1"), Barcode: strPtr("111111111111")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("name = %q, want updated", updated.Name)
	}
	if updated.BarcodeImage != "img:111111111111" {
		t.Errorf("unchanged barcode must keep its image, got %q", updated.BarcodeImage)
	}
}

func TestUpdateRerendersChangedBarcode(t *testing.T) {
	products := newMemProducts()
	orgID := uuid.New()
	existing := domain.NewProduct(orgID, "Soap")
	existing.Barcode = strPtr("111111111111")
	existing.BarcodeImage = "img:111111111111"
	products.items[existing.ID] = existing

	svc := testService(products)
	updated, err := svc.Update(context.Background(), orgID, existing.ID,
		ProductInput{Name: "Soap", Barcode: strPtr("222222222222")})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.BarcodeImage != "img:222222222222" {
		t.Errorf("image = %q, want re-rendered", updated.BarcodeImage)
	}
}

func TestUpdateUnknownRecord(t *testing.T) {
	svc := testService(newMemProducts())
	_, err := svc.Update(context.Background(), uuid.New(), uuid.New(), ProductInput{Name: "Soap"})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
