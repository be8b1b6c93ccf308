package ingestion

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ledgerline/billing-api/internal/domain"
	"github.com/ledgerline/billing-api/internal/repository"
)

// Service runs the full ingestion pipeline for one uploaded batch:
// decode, map columns, then per row normalize, validate, dedup, match, and
// reconcile, aggregating outcomes into the batch report.
type Service struct {
	products repository.ProductRepository
	matcher  *Matcher
	engine   *Engine
	logger   *zap.Logger
}

// NewService creates an ingestion service.
func NewService(products repository.ProductRepository, barcodes BarcodeAllocator, render ImageRenderer, logger *zap.Logger) *Service {
	return &Service{
		products: products,
		matcher:  NewMatcher(products),
		engine:   NewEngine(products, barcodes, render),
		logger:   logger,
	}
}

// Request describes one uploaded batch. The tenant comes from the
// authenticated context, never from the file.
type Request struct {
	OrgID    uuid.UUID
	Mode     Mode
	FileName string
	Data     []byte
}

// Process runs the batch. Batch-level precondition failures return a
// *BatchError and no report; once row processing starts the batch always
// completes and returns a report, even if every row failed.
func (s *Service) Process(ctx context.Context, req Request) (Report, error) {
	if req.OrgID == uuid.Nil {
		return Report{}, fmt.Errorf("tenant scope is required")
	}

	grid, err := readWorkbook(req.Data)
	if err != nil {
		return Report{}, err
	}
	if len(grid) < 2 {
		return Report{}, batchError(TagNoDataRows, "file must have a header row and at least one data row")
	}
	dataRows := len(grid) - 1
	if dataRows > maxDataRows {
		return Report{}, batchError(TagTooManyRows, fmt.Sprintf("maximum %d data rows allowed per upload", maxDataRows))
	}

	columns := MapColumns(grid[0])
	if !columns.Has(FieldName) {
		return Report{}, batchError(TagMissingRequiredColumn, "file must have a 'Name' column")
	}

	agg := newAggregator(req.Mode)
	guard := newDedupGuard()

	// First pass: normalize, validate, and dedup every row before touching
	// storage, so in-file problems are reported regardless of catalog state.
	var valid []ProductRow
	for i, cells := range grid[1:] {
		rowNumber := i + 2 // 1-based, header is row 1
		row := NormalizeRow(cells, columns, rowNumber)
		if row.Blank() {
			continue
		}
		if violations := ValidateRow(row); len(violations) > 0 {
			agg.RejectRow(rowNumber, strings.Join(violations, ", "))
			continue
		}
		if err := guard.Check(row); err != nil {
			agg.RejectRow(rowNumber, err.Error())
			continue
		}
		valid = append(valid, row)
	}

	if len(valid) == 0 && agg.rejectionCount() == 0 {
		return Report{}, batchError(TagNoValidData, "no valid product data found in the file")
	}

	// Second pass: reconcile surviving rows in source order, one storage
	// write per accepted row. A row's failure never aborts the rest.
	for _, row := range valid {
		if ctx.Err() != nil {
			return Report{}, fmt.Errorf("batch aborted: %w", ctx.Err())
		}

		var match *domain.Product
		if req.Mode != ModeCreate {
			match, err = s.matcher.Match(ctx, req.OrgID, row)
			if err != nil {
				agg.RecordFailure(row.RowNumber, err)
				continue
			}
		}

		result, err := s.engine.Reconcile(ctx, req.OrgID, req.Mode, row, match)
		if err != nil {
			agg.RecordFailure(row.RowNumber, err)
			continue
		}
		switch result.Outcome {
		case OutcomeCreated:
			agg.RecordCreated(row.RowNumber, result.Product)
		case OutcomeUpdated:
			agg.RecordUpdated(row.RowNumber, result.Product)
		case OutcomeNotFound:
			agg.RecordNotFound(row)
		}
	}

	report := agg.Finalize(dataRows, len(valid))
	s.logger.Info("bulk upload processed",
		zap.String("orgId", req.OrgID.String()),
		zap.String("operation", string(req.Mode)),
		zap.String("file", req.FileName),
		zap.Int("total", report.Summary.Total),
		zap.Int("processed", report.Summary.Processed),
		zap.Int("errors", report.Summary.Errors),
	)
	return report, nil
}
