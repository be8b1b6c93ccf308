// Package ingestion implements the bulk catalog upload engine: a spreadsheet
// of product rows is reconciled against the tenant's catalog under a
// create, update, or upsert mode, producing a row-level partial-success
// report. Rows are processed strictly in source order; a bad row never aborts
// the batch.
package ingestion

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// maxDataRows caps the number of data rows accepted per upload.
const maxDataRows = 5000

// Batch precondition tags. These abort the whole request before any row is
// processed; everything after them is reported per row instead.
const (
	TagNoFileProvided        = "NoFileProvided"
	TagInvalidFileType       = "InvalidFileType"
	TagInvalidOperation      = "InvalidOperation"
	TagEmptyWorkbook         = "EmptyWorkbook"
	TagNoDataRows            = "NoDataRows"
	TagTooManyRows           = "TooManyRows"
	TagMissingRequiredColumn = "MissingRequiredColumn"
	TagNoValidData           = "NoValidData"
)

// BatchError is a batch-level precondition failure carrying a stable tag.
type BatchError struct {
	Tag     string
	Message string
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tag, e.Message)
}

func batchError(tag, message string) *BatchError {
	return &BatchError{Tag: tag, Message: message}
}

// readWorkbook decodes an uploaded spreadsheet into a rectangular grid of raw
// cell values. Only the first sheet is read; row 0 is the header row.
func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, batchError(TagInvalidFileType, "file could not be decoded as a spreadsheet")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, batchError(TagEmptyWorkbook, "spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}
