// Package batch runs the document processor over an ordered collection
// of paths, isolating per-document failures and accumulating one
// BatchReport per run.
package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/invoicetools/pdf2xlsx/constants"
	"github.com/invoicetools/pdf2xlsx/internal/entity"
)

// DocumentProcessor is the per-document stage the aggregator drives.
type DocumentProcessor interface {
	Process(ctx context.Context, path string) entity.ExtractionResult
}

type Aggregator struct {
	Logger    *slog.Logger
	Processor DocumentProcessor
}

func New(logger *slog.Logger, proc DocumentProcessor) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{Logger: logger, Processor: proc}
}

// Run processes paths in input order. One bad document never aborts the
// batch; cancellation is cooperative, checked between documents, and
// preserves the partial report accumulated so far. Per-document
// processing shares no state, so results are deterministic for a
// deterministic input ordering.
func (a *Aggregator) Run(ctx context.Context, paths []string) *entity.BatchReport {
	report := &entity.BatchReport{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
	}

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			a.Logger.Warn("batch.cancelled",
				"run_id", report.RunID.String(),
				"processed", i,
				"remaining", len(paths)-i,
			)
			break
		}

		res := a.Processor.Process(ctx, path)
		report.Results = append(report.Results, res)
		report.Attempted++
		switch res.Status {
		case constants.DocStatusSuccess:
			report.Succeeded++
		case constants.DocStatusPartial:
			report.Partial++
		case constants.DocStatusFailed:
			report.Failed++
		}
	}

	a.Logger.Info("batch.done",
		"run_id", report.RunID.String(),
		"attempted", report.Attempted,
		"succeeded", report.Succeeded,
		"partial", report.Partial,
		"failed", report.Failed,
		"line_items", report.TotalLineItems(),
	)
	return report
}
