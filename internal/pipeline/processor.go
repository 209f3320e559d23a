// Package pipeline coordinates per-document extraction: read, extract
// (fields + tables + text fallback), reconcile. One document in, one
// immutable ExtractionResult out; only read failures are terminal.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/invoicetools/pdf2xlsx/constants"
	"github.com/invoicetools/pdf2xlsx/internal/entity"
	"github.com/invoicetools/pdf2xlsx/internal/reconcile"
)

// DocumentOpener yields the raw per-page view of one document.
type DocumentOpener interface {
	Open(ctx context.Context, path string) (*entity.Document, error)
}

// FieldRecognizer extracts invoice header fields from document text.
type FieldRecognizer interface {
	Recognize(text string) entity.InvoiceFields
}

// TableNormalizer converts one raw grid into candidate line items.
type TableNormalizer interface {
	Normalize(grid entity.RawTableGrid) []entity.LineItem
}

// TextExtractor recovers candidate line items from raw page text.
type TextExtractor interface {
	Extract(text string, page int) []entity.LineItem
}

// Options selects which extraction paths run.
type Options struct {
	ExtractTables bool
	ExtractText   bool
	Reconcile     reconcile.Options
}

// DocumentEvent is the structured per-document telemetry record handed
// to the external logging layer. The field set is the contract; the
// format is the consumer's business.
type DocumentEvent struct {
	Filename      string
	Status        constants.DocStatus
	Pages         int
	Tables        int
	LineItems     int
	TextExtracted bool
	Error         string
}

// Processor runs the read → extract → reconcile stages for one document.
type Processor struct {
	Logger  *slog.Logger
	Opener  DocumentOpener
	Fields  FieldRecognizer
	Tables  TableNormalizer
	Text    TextExtractor
	Opts    Options
	OnEvent func(DocumentEvent) // optional sink for per-document events
}

func NewProcessor(logger *slog.Logger, opener DocumentOpener, fields FieldRecognizer, tables TableNormalizer, text TextExtractor, opts Options) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger: logger,
		Opener: opener,
		Fields: fields,
		Tables: tables,
		Text:   text,
		Opts:   opts,
	}
}

// Process runs the document state machine. It never returns an error:
// a read failure becomes a failed result carrying the message, and every
// downstream anomaly degrades completeness instead of availability.
func (p *Processor) Process(ctx context.Context, path string) entity.ExtractionResult {
	doc, err := p.Opener.Open(ctx, path)
	if err != nil {
		res := entity.ExtractionResult{
			Filename:     filepath.Base(path),
			Path:         path,
			Status:       constants.DocStatusFailed,
			ErrorMessage: err.Error(),
		}
		p.emit(res)
		return res
	}

	res := entity.ExtractionResult{
		Filename:  doc.Filename,
		Path:      doc.Path,
		FileSize:  doc.FileSize,
		PageCount: doc.PageCount,
		Tables:    doc.AllTables(),
	}

	if p.Opts.ExtractText {
		res.Text = doc.Text()
		res.Fields = p.Fields.Recognize(res.Text)
	}

	candidates := p.extractLineItems(doc)
	res.LineItems = reconcile.Merge(candidates, p.Opts.Reconcile)

	if len(res.LineItems) > 0 || !res.Fields.Empty() {
		res.Status = constants.DocStatusSuccess
	} else {
		res.Status = constants.DocStatusPartial
	}

	p.emit(res)
	return res
}

// extractLineItems gathers candidates page by page. Table parsing is
// page-isolated: a grid that normalizes to nothing simply contributes
// nothing. The text fallback fires only for pages whose table-derived
// item count is zero, and only when both extraction paths are enabled.
func (p *Processor) extractLineItems(doc *entity.Document) []entity.LineItem {
	if !p.Opts.ExtractTables {
		return nil
	}

	var candidates []entity.LineItem
	for _, page := range doc.Pages {
		pageItems := 0
		for _, grid := range page.Tables {
			items := p.Tables.Normalize(grid)
			pageItems += len(items)
			candidates = append(candidates, items...)
		}
		if pageItems == 0 && p.Opts.ExtractText && page.Text != "" {
			candidates = append(candidates, p.Text.Extract(page.Text, page.Number)...)
		}
	}
	return candidates
}

func (p *Processor) emit(res entity.ExtractionResult) {
	ev := DocumentEvent{
		Filename:      res.Filename,
		Status:        res.Status,
		Pages:         res.PageCount,
		Tables:        len(res.Tables),
		LineItems:     len(res.LineItems),
		TextExtracted: res.HasText(),
		Error:         res.ErrorMessage,
	}
	if p.OnEvent != nil {
		p.OnEvent(ev)
	}

	switch res.Status {
	case constants.DocStatusFailed:
		p.Logger.Error("processor.document.failed", "filename", ev.Filename, "err", ev.Error)
	default:
		p.Logger.Info("processor.document.ok",
			"filename", ev.Filename,
			"status", string(ev.Status),
			"pages", ev.Pages,
			"tables", ev.Tables,
			"line_items", ev.LineItems,
			"text_extracted", ev.TextExtracted,
		)
	}
}
