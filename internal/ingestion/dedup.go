package ingestion

import (
	"fmt"
	"strings"
)

// dedupGuard tracks SKUs and barcodes already seen within the current batch so
// a later row cannot repeat a key an earlier row claimed. First occurrence
// wins; repeats are rejected, not merged.
type dedupGuard struct {
	skus     map[string]struct{}
	barcodes map[string]struct{}
}

func newDedupGuard() *dedupGuard {
	return &dedupGuard{
		skus:     make(map[string]struct{}),
		barcodes: make(map[string]struct{}),
	}
}

// Check rejects the row if its SKU or barcode (case-insensitive) was already
// seen in this batch, and otherwise records both keys.
func (g *dedupGuard) Check(row ProductRow) error {
	if sku, ok := row.String(FieldSKU); ok {
		key := strings.ToLower(sku)
		if _, seen := g.skus[key]; seen {
			return fmt.Errorf("Duplicate SKU '%s' in file", sku)
		}
		g.skus[key] = struct{}{}
	}
	if barcode, ok := row.String(FieldBarcode); ok {
		key := strings.ToLower(barcode)
		if _, seen := g.barcodes[key]; seen {
			return fmt.Errorf("Duplicate barcode '%s' in file", barcode)
		}
		g.barcodes[key] = struct{}{}
	}
	return nil
}
