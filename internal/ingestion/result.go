package ingestion

import (
	"github.com/ledgerline/billing-api/internal/domain"
)

// RowRef points a result bucket entry back at its source row.
type RowRef struct {
	Row  int    `json:"row"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// RowError is one rejected row with its reason.
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// Results holds the per-row outcome buckets. Which buckets appear depends on
// the operating mode; Errors is always present.
type Results struct {
	Success  []RowRef   `json:"success,omitempty"`
	Created  []RowRef   `json:"created,omitempty"`
	Updated  []RowRef   `json:"updated,omitempty"`
	NotFound []RowRef   `json:"notFound,omitempty"`
	Errors   []RowError `json:"errors"`
}

// Summary carries the aggregate counts for the batch.
type Summary struct {
	Total            int  `json:"total"`
	Processed        int  `json:"processed"`
	ValidationErrors int  `json:"validationErrors"`
	Created          *int `json:"created,omitempty"`
	Updated          *int `json:"updated,omitempty"`
	NotFound         *int `json:"notFound,omitempty"`
	Errors           int  `json:"errors"`
}

// Report is the sole externally visible result of a processed batch.
type Report struct {
	Operation Mode    `json:"operation"`
	Results   Results `json:"results"`
	Summary   Summary `json:"summary"`
}

// aggregator accumulates row outcomes in source order and builds the report
// once at the end of the batch.
type aggregator struct {
	mode Mode

	created  []RowRef
	updated  []RowRef
	notFound []RowRef
	// rejections are validation and in-file duplicate errors, collected before
	// any storage interaction; failures happen during reconciliation.
	rejections []RowError
	failures   []RowError
}

func newAggregator(mode Mode) *aggregator {
	return &aggregator{mode: mode}
}

func (a *aggregator) RejectRow(row int, reason string) {
	a.rejections = append(a.rejections, RowError{Row: row, Error: reason})
}

func (a *aggregator) RecordCreated(row int, product domain.Product) {
	a.created = append(a.created, RowRef{Row: row, ID: product.ID.String(), Name: product.Name})
}

func (a *aggregator) RecordUpdated(row int, product domain.Product) {
	a.updated = append(a.updated, RowRef{Row: row, ID: product.ID.String(), Name: product.Name})
}

func (a *aggregator) RecordNotFound(row ProductRow) {
	ref := RowRef{Row: row.RowNumber}
	if name, ok := row.String(FieldName); ok {
		ref.Name = name
	}
	a.notFound = append(a.notFound, ref)
}

func (a *aggregator) RecordFailure(row int, err error) {
	a.failures = append(a.failures, RowError{Row: row, Error: err.Error()})
}

func (a *aggregator) rejectionCount() int {
	return len(a.rejections)
}

// Finalize assembles the mode-appropriate report. total counts every data row
// in the file including blank ones; processed counts rows that survived
// validation and dedup.
func (a *aggregator) Finalize(total, processed int) Report {
	errors := make([]RowError, 0, len(a.rejections)+len(a.failures))
	errors = append(errors, a.rejections...)
	errors = append(errors, a.failures...)

	report := Report{
		Operation: a.mode,
		Results:   Results{Errors: errors},
		Summary: Summary{
			Total:            total,
			Processed:        processed,
			ValidationErrors: len(a.rejections),
			Errors:           len(errors),
		},
	}

	switch a.mode {
	case ModeCreate:
		report.Results.Success = a.created
		report.Summary.Created = intPtr(len(a.created))
	case ModeUpdate:
		report.Results.Success = a.updated
		report.Results.NotFound = a.notFound
		report.Summary.Updated = intPtr(len(a.updated))
		report.Summary.NotFound = intPtr(len(a.notFound))
	default: // ModeUpsert
		report.Results.Created = a.created
		report.Results.Updated = a.updated
		report.Summary.Created = intPtr(len(a.created))
		report.Summary.Updated = intPtr(len(a.updated))
	}

	return report
}

func intPtr(v int) *int {
	return &v
}
