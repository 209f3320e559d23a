package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/invoicetools/pdf2xlsx/constants"
)

// InvoiceFields carries the recognized header fields of one invoice.
// Every field is independently optional; absence is expected, not an error.
type InvoiceFields struct {
	InvoiceNumber string `json:"invoice_number,omitempty"`
	InvoiceDate   string `json:"invoice_date,omitempty"`
	Vendor        string `json:"vendor,omitempty"`
	TotalAmount   string `json:"total_amount,omitempty"`
}

// Empty reports whether no field was recognized.
func (f InvoiceFields) Empty() bool {
	return f.InvoiceNumber == "" && f.InvoiceDate == "" && f.Vendor == "" && f.TotalAmount == ""
}

// LineItem is one billed entry recovered from a table grid or from raw
// text. Description is non-empty after trimming for any item that
// survives reconciliation.
type LineItem struct {
	Description string               `json:"description"`
	Amount      *float64             `json:"amount,omitempty"`
	Quantity    *float64             `json:"quantity,omitempty"`
	UnitPrice   *float64             `json:"unit_price,omitempty"`
	Source      constants.ItemSource `json:"source"`
	Page        int                  `json:"page"`
	Table       int                  `json:"table,omitempty"` // 1-based; zero for text-sourced items
}

// Num is a literal helper for optional numeric fields.
func Num(v float64) *float64 { return &v }

// ExtractionResult is the immutable per-document bundle handed downstream.
type ExtractionResult struct {
	Filename     string              `json:"filename"`
	Path         string              `json:"path"`
	FileSize     int64               `json:"file_size"`
	PageCount    int                 `json:"page_count"`
	Fields       InvoiceFields       `json:"fields"`
	Text         string              `json:"text"`
	Tables       []RawTableGrid      `json:"tables,omitempty"`
	LineItems    []LineItem          `json:"line_items,omitempty"`
	Status       constants.DocStatus `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
}

// HasText reports whether any extractable text was found.
func (r ExtractionResult) HasText() bool { return r.Text != "" }

// BatchReport accumulates results and counters for one aggregator run.
type BatchReport struct {
	RunID     uuid.UUID          `json:"run_id"`
	StartedAt time.Time          `json:"started_at"`
	Results   []ExtractionResult `json:"results"`
	Attempted int                `json:"attempted"`
	Succeeded int                `json:"succeeded"`
	Partial   int                `json:"partial"`
	Failed    int                `json:"failed"`
}

// TotalLineItems counts reconciled items across all results.
func (r *BatchReport) TotalLineItems() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.LineItems)
	}
	return n
}
