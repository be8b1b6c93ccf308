package ingestion

import (
	"strings"
	"unicode"
)

// Canonical field names a spreadsheet column can map to.
const (
	FieldName          = "name"
	FieldSKU           = "sku"
	FieldBarcode       = "barcode"
	FieldSellingPrice  = "sellingPrice"
	FieldPurchasePrice = "purchasePrice"
	FieldStock         = "stock"
	FieldTaxRate       = "taxRate"
	FieldCategory      = "category"
	FieldBrand         = "brand"
	FieldHSN           = "hsn"
	FieldID            = "id"
	FieldDescription   = "description"
)

// columnSynonyms maps normalized header spellings to canonical field names.
// Normalization already collapses case, whitespace and underscores, so
// "Selling Price", "selling_price" and "sellingprice" all hit the same key.
var columnSynonyms = map[string]string{
	"name":          FieldName,
	"sku":           FieldSKU,
	"barcode":       FieldBarcode,
	"sellingprice":  FieldSellingPrice,
	"purchaseprice": FieldPurchasePrice,
	"stock":         FieldStock,
	"taxrate":       FieldTaxRate,
	"category":      FieldCategory,
	"brand":         FieldBrand,
	"hsn":           FieldHSN,
	"id":            FieldID,
	"description":   FieldDescription,
}

// numericFields are coerced through a numeric parse during normalization.
var numericFields = map[string]bool{
	FieldSellingPrice:  true,
	FieldPurchasePrice: true,
	FieldStock:         true,
	FieldTaxRate:       true,
}

// normalizeHeader lower-cases a raw header and strips whitespace and
// underscores so cosmetic spelling differences collapse to one key.
func normalizeHeader(header string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(header)) {
		if unicode.IsSpace(r) || r == '_' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ColumnMap maps column indexes of the uploaded sheet to canonical field
// names. Columns whose header matches no synonym are simply absent and their
// cells are ignored downstream.
type ColumnMap struct {
	canonical map[int]string
}

// MapColumns builds the column map from the raw header row.
func MapColumns(headers []string) ColumnMap {
	m := ColumnMap{canonical: make(map[int]string, len(headers))}
	for idx, header := range headers {
		if field, ok := columnSynonyms[normalizeHeader(header)]; ok {
			m.canonical[idx] = field
		}
	}
	return m
}

// Canonical returns the canonical field for a column index, if mapped.
func (m ColumnMap) Canonical(col int) (string, bool) {
	field, ok := m.canonical[col]
	return field, ok
}

// Has reports whether any column mapped to the canonical field.
func (m ColumnMap) Has(field string) bool {
	for _, mapped := range m.canonical {
		if mapped == field {
			return true
		}
	}
	return false
}
