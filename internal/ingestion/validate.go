package ingestion

import "strings"

// ValidateRow applies the field-level constraints to a normalized row. Every
// rule is checked independently; the returned violations preserve rule order.
// An empty slice means the row is valid.
func ValidateRow(row ProductRow) []string {
	var violations []string

	if name, ok := row.String(FieldName); !ok || strings.TrimSpace(name) == "" {
		violations = append(violations, "Name is required")
	}
	if price, ok := row.Number(FieldSellingPrice); ok && price < 0 {
		violations = append(violations, "Selling price cannot be negative")
	}
	if price, ok := row.Number(FieldPurchasePrice); ok && price < 0 {
		violations = append(violations, "Purchase price cannot be negative")
	}
	if stock, ok := row.Number(FieldStock); ok && stock < 0 {
		violations = append(violations, "Stock cannot be negative")
	}
	if rate, ok := row.Number(FieldTaxRate); ok && (rate < 0 || rate > 100) {
		violations = append(violations, "Tax rate must be between 0 and 100")
	}

	return violations
}
