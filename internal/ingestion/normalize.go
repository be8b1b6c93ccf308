package ingestion

import (
	"strconv"
	"strings"
)

// ProductRow is one normalized data row. Field values are coerced (float64
// for numeric fields, trimmed strings otherwise); blank or unparseable cells
// are absent rather than zero.
type ProductRow struct {
	// RowNumber is the 1-based spreadsheet row, used for error reporting.
	RowNumber int

	fields map[string]any
}

// NormalizeRow converts one raw row into a ProductRow using the column map.
// Cells in unmapped columns are ignored.
func NormalizeRow(cells []string, columns ColumnMap, rowNumber int) ProductRow {
	row := ProductRow{RowNumber: rowNumber, fields: make(map[string]any)}
	for col, cell := range cells {
		field, ok := columns.Canonical(col)
		if !ok {
			continue
		}
		value := strings.TrimSpace(cell)
		if value == "" {
			continue
		}
		if numericFields[field] {
			if n, err := strconv.ParseFloat(value, 64); err == nil {
				row.fields[field] = n
			}
			continue
		}
		row.fields[field] = value
	}
	return row
}

// Blank reports whether every mapped cell of the row was absent. Blank rows
// are skipped entirely: they count toward the batch total but not toward
// processed rows, and they produce no error.
func (r ProductRow) Blank() bool {
	return len(r.fields) == 0
}

// Has reports whether the field carries a value.
func (r ProductRow) Has(field string) bool {
	_, ok := r.fields[field]
	return ok
}

// String returns the field's string value, if present.
func (r ProductRow) String(field string) (string, bool) {
	v, ok := r.fields[field].(string)
	return v, ok
}

// Number returns the field's numeric value, if present.
func (r ProductRow) Number(field string) (float64, bool) {
	v, ok := r.fields[field].(float64)
	return v, ok
}
