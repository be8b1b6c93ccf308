package ingestion

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Products"

// TemplateFileName is the suggested download name for the upload template.
const TemplateFileName = "product_upload_template.xlsx"

var templateColumns = []struct {
	header string
	sample any
	width  float64
}{
	{"Name", "Sample Product", 25},
	{"SKU", "SKU-001", 15},
	{"Barcode", "123456789012", 15},
	{"Selling Price", "999.99", 15},
	{"Purchase Price", "500.00", 15},
	{"Stock", "100", 10},
	{"Tax Rate", "18", 10},
	{"Category", "Electronics", 15},
	{"Brand", "Sample Brand", 15},
	{"HSN", "8471", 10},
	{"Description", "Sample product description", 30},
}

// BuildTemplate produces a spreadsheet with the canonical header row and one
// example row, ready for round-trip reuse through the bulk upload endpoint.
func BuildTemplate() (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return nil, fmt.Errorf("failed to name template sheet: %w", err)
	}

	headers := make([]any, len(templateColumns))
	samples := make([]any, len(templateColumns))
	for i, col := range templateColumns {
		headers[i] = col.header
		samples[i] = col.sample
	}
	if err := f.SetSheetRow(templateSheet, "A1", &headers); err != nil {
		return nil, fmt.Errorf("failed to write template header: %w", err)
	}
	if err := f.SetSheetRow(templateSheet, "A2", &samples); err != nil {
		return nil, fmt.Errorf("failed to write template sample row: %w", err)
	}

	for i, col := range templateColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve column name: %w", err)
		}
		if err := f.SetColWidth(templateSheet, name, name, col.width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize template: %w", err)
	}
	return buf, nil
}
