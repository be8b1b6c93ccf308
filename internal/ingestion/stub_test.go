package ingestion

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/repository"
)

// stubProducts is an in-memory ProductRepository enforcing the same per-tenant
// uniqueness rules as the real storage layer.
type stubProducts struct {
	mu    sync.Mutex
	items map[uuid.UUID]domain.Product
}

func newStubProducts() *stubProducts {
	return &stubProducts{items: make(map[uuid.UUID]domain.Product)}
}

func (s *stubProducts) List(_ context.Context, orgID uuid.UUID) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Product
	for _, p := range s.items {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProducts) GetByID(_ context.Context, orgID, id uuid.UUID) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok || p.OrgID != orgID {
		return domain.Product{}, repository.ErrNotFound
	}
	return p, nil
}

func (s *stubProducts) GetBySKU(_ context.Context, orgID uuid.UUID, sku string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.OrgID == orgID && p.HasSKU() && strings.EqualFold(*p.SKU, sku) {
			return p, nil
		}
	}
	return domain.Product{}, repository.ErrNotFound
}

func (s *stubProducts) GetByBarcode(_ context.Context, orgID uuid.UUID, barcode string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.OrgID == orgID && p.HasBarcode() && *p.Barcode == barcode {
			return p, nil
		}
	}
	return domain.Product{}, repository.ErrNotFound
}

func (s *stubProducts) Create(_ context.Context, product domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conflict(product, uuid.Nil); err != nil {
		return domain.Product{}, err
	}
	s.items[product.ID] = product
	return product, nil
}

func (s *stubProducts) Update(_ context.Context, product domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[product.ID]
	if !ok || existing.OrgID != product.OrgID {
		return domain.Product{}, repository.ErrNotFound
	}
	if err := s.conflict(product, product.ID); err != nil {
		return domain.Product{}, err
	}
	s.items[product.ID] = product
	return product, nil
}

func (s *stubProducts) Delete(_ context.Context, orgID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok || p.OrgID != orgID {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *stubProducts) SKUTaken(_ context.Context, orgID uuid.UUID, sku string, excludeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.OrgID == orgID && p.ID != excludeID && p.HasSKU() && strings.EqualFold(*p.SKU, sku) {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubProducts) BarcodeTaken(_ context.Context, orgID uuid.UUID, barcode string, excludeID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.items {
		if p.OrgID == orgID && p.ID != excludeID && p.HasBarcode() && *p.Barcode == barcode {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubProducts) conflict(product domain.Product, excludeID uuid.UUID) error {
	for _, p := range s.items {
		if p.OrgID != product.OrgID || p.ID == excludeID {
			continue
		}
		if product.HasSKU() && p.HasSKU() && strings.EqualFold(*p.SKU, *product.SKU) {
			return repository.ErrDuplicateSKU
		}
		if product.HasBarcode() && p.HasBarcode() && *p.Barcode == *product.Barcode {
			return repository.ErrDuplicateBarcode
		}
	}
	return nil
}

func (s *stubProducts) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *stubProducts) add(t *testing.T, p domain.Product) domain.Product {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[p.ID] = p
	return p
}

// stubAllocator hands out a deterministic sequence of 12-digit codes.
type stubAllocator struct {
	mu   sync.Mutex
	next int
}

func (a *stubAllocator) Allocate(context.Context, uuid.UUID) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next++
	return fmt.Sprintf("%012d", 900000000000+a.next), nil
}

func stubRender(code string) string {
	return "img:" + code
}

func strPtr(s string) *string {
	return &s
}

// buildWorkbook writes the rows into a single-sheet workbook and returns the
// serialized file, the shape every upload test feeds into Process.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("failed to compute cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("failed to write row %d: %v", i+1, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize workbook: %v", err)
	}
	return buf.Bytes()
}
