package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/repository"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		raw  string
		mode Mode
		ok   bool
	}{
		{"", ModeUpsert, true},
		{"create", ModeCreate, true},
		{"update", ModeUpdate, true},
		{"upsert", ModeUpsert, true},
		{"merge", "", false},
	}
	for _, c := range cases {
		mode, ok := ParseMode(c.raw)
		if mode != c.mode || ok != c.ok {
			t.Errorf("ParseMode(%q) = (%q, %v), want (%q, %v)", c.raw, mode, ok, c.mode, c.ok)
		}
	}
}

func TestReconcileUpdateWithoutMatch(t *testing.T) {
	engine := NewEngine(newStubProducts(), &stubAllocator{}, stubRender)
	result, err := engine.Reconcile(context.Background(), uuid.New(), ModeUpdate,
		testRow(map[string]any{FieldName: "Ghost"}), nil)
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if result.Outcome != OutcomeNotFound {
		t.Errorf("outcome = %v, want OutcomeNotFound", result.Outcome)
	}
}

func TestReconcileCreateAllocatesAndRenders(t *testing.T) {
	products := newStubProducts()
	engine := NewEngine(products, &stubAllocator{}, stubRender)
	orgID := uuid.New()

	result, err := engine.Reconcile(context.Background(), orgID, ModeCreate,
		testRow(map[string]any{FieldName: "Soap", FieldSellingPrice: 25.0}), nil)
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if result.Outcome != OutcomeCreated {
		t.Fatalf("outcome = %v, want OutcomeCreated", result.Outcome)
	}
	p := result.Product
	if !p.HasBarcode() || len(*p.Barcode) != 12 {
		t.Errorf("barcode = %v, want allocated 12-digit code", p.Barcode)
	}
	if p.BarcodeImage != "img:"+*p.Barcode {
		t.Errorf("barcode image = %q, want rendered", p.BarcodeImage)
	}
	if p.DiscountType != "percentage" || p.Status != "active" {
		t.Errorf("defaults not applied: %+v", p)
	}
}

func TestReconcileCreateKeepsSuppliedBarcode(t *testing.T) {
	products := newStubProducts()
	engine := NewEngine(products, &stubAllocator{}, stubRender)

	result, err := engine.Reconcile(context.Background(), uuid.New(), ModeCreate,
		testRow(map[string]any{FieldName: "Soap", FieldBarcode: "111111111111"}), nil)
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if *result.Product.Barcode != "111111111111" {
		t.Errorf("barcode = %q, want the supplied one", *result.Product.Barcode)
	}
	if result.Product.BarcodeImage != "img:111111111111" {
		t.Errorf("image must be rendered for supplied barcodes too, got %q", result.Product.BarcodeImage)
	}
}

func TestReconcileCreateConflict(t *testing.T) {
	products := newStubProducts()
	orgID := uuid.New()
	existing := domain.NewProduct(orgID, "Existing")
	existing.SKU = strPtr("ABC-1")
	products.add(t, existing)

	engine := NewEngine(products, &stubAllocator{}, stubRender)
	_, err := engine.Reconcile(context.Background(), orgID, ModeCreate,
		testRow(map[string]any{FieldName: "Soap", FieldSKU: "abc-1"}), nil)
	if !errors.Is(err, repository.ErrDuplicateSKU) {
		t.Errorf("err = %v, want ErrDuplicateSKU", err)
	}
}

func TestReconcileUpdateExcludesSelfFromConflicts(t *testing.T) {
	products := newStubProducts()
	orgID := uuid.New()
	existing := domain.NewProduct(orgID, "Old Name")
	existing.SKU = strPtr("ABC-1")
	products.add(t, existing)

	engine := NewEngine(products, &stubAllocator{}, stubRender)
	result, err := engine.Reconcile(context.Background(), orgID, ModeUpdate,
		testRow(map[string]any{FieldName: "New Name", FieldSKU: "ABC-1"}), &existing)
	if err != nil {
		t.Fatalf("updating a record with its own SKU must not conflict: %v", err)
	}
	if result.Outcome != OutcomeUpdated || result.Product.Name != "New Name" {
		t.Errorf("result = %+v, want updated name", result)
	}
}

func TestReconcileUpdateConflictWithOtherRecord(t *testing.T) {
	products := newStubProducts()
	orgID := uuid.New()
	target := domain.NewProduct(orgID, "Target")
	target.SKU = strPtr("ABC-1")
	products.add(t, target)
	other := domain.NewProduct(orgID, "Other")
	other.Barcode = strPtr("222222222222")
	products.add(t, other)

	engine := NewEngine(products, &stubAllocator{}, stubRender)
	_, err := engine.Reconcile(context.Background(), orgID, ModeUpdate,
		testRow(map[string]any{FieldBarcode: "222222222222"}), &target)
	if !errors.Is(err, repository.ErrDuplicateBarcode) {
		t.Errorf("err = %v, want ErrDuplicateBarcode", err)
	}
}

func TestReconcileUpdateRerendersOnBarcodeChange(t *testing.T) {
	products := newStubProducts()
	orgID := uuid.New()
	existing := domain.NewProduct(orgID, "Soap")
	existing.Barcode = strPtr("111111111111")
	existing.BarcodeImage = "img:111111111111"
	products.add(t, existing)

	engine := NewEngine(products, &stubAllocator{}, stubRender)
	result, err := engine.Reconcile(context.Background(), orgID, ModeUpsert,
		testRow(map[string]any{FieldBarcode: "333333333333"}), &existing)
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	if result.Product.BarcodeImage != "img:333333333333" {
		t.Errorf("image = %q, want re-rendered for the new barcode", result.Product.BarcodeImage)
	}
}

func TestReconcileUpdateLeavesAbsentFieldsAlone(t *testing.T) {
	products := newStubProducts()
	orgID := uuid.New()
	existing := domain.NewProduct(orgID, "Soap")
	existing.SKU = strPtr("ABC-1")
	existing.SellingPrice = 25
	existing.Stock = 40
	products.add(t, existing)

	engine := NewEngine(products, &stubAllocator{}, stubRender)
	result, err := engine.Reconcile(context.Background(), orgID, ModeUpdate,
		testRow(map[string]any{FieldSKU: "ABC-1", FieldStock: 50.0}), &existing)
	if err != nil {
		t.Fatalf("Reconcile returned error: %v", err)
	}
	p := result.Product
	if p.Stock != 50 {
		t.Errorf("stock = %v, want 50", p.Stock)
	}
	if p.Name != "Soap" || p.SellingPrice != 25 {
		t.Errorf("absent fields must stay untouched, got %+v", p)
	}
}
