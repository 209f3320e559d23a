// Package fields recognizes invoice header fields (number, date, vendor,
// total) in extracted document text using an ordered pattern rule table.
package fields

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/invoicetools/pdf2xlsx/internal/entity"
)

var collapseWS = regexp.MustCompile(`\s+`)

type Recognizer struct {
	rules  []Rule
	logger *slog.Logger
}

func NewRecognizer(rules []Rule, logger *slog.Logger) *Recognizer {
	if logger == nil {
		logger = slog.Default()
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Recognizer{rules: rules, logger: logger}
}

// Recognize applies the rule table to the document text. A field with no
// matching rule stays absent; garbled or empty input yields empty fields,
// never an error.
//
// Known limitation: multi-invoice documents get the first match per field
// across the whole text, which may mix invoices.
func (r *Recognizer) Recognize(text string) entity.InvoiceFields {
	var out entity.InvoiceFields
	if strings.TrimSpace(text) == "" {
		return out
	}

	for _, rule := range r.rules {
		if fieldSet(&out, rule.Field) {
			continue
		}
		m := rule.Pattern.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		v := cleanValue(m[1])
		if v == "" {
			continue
		}
		assign(&out, rule.Field, v)
	}

	r.logger.Debug("fields.recognize",
		"invoice_number", out.InvoiceNumber != "",
		"invoice_date", out.InvoiceDate != "",
		"vendor", out.Vendor != "",
		"total_amount", out.TotalAmount != "",
	)
	return out
}

func fieldSet(f *entity.InvoiceFields, field Field) bool {
	switch field {
	case FieldInvoiceNumber:
		return f.InvoiceNumber != ""
	case FieldInvoiceDate:
		return f.InvoiceDate != ""
	case FieldVendor:
		return f.Vendor != ""
	case FieldTotalAmount:
		return f.TotalAmount != ""
	}
	return true
}

func assign(f *entity.InvoiceFields, field Field, v string) {
	switch field {
	case FieldInvoiceNumber:
		f.InvoiceNumber = v
	case FieldInvoiceDate:
		f.InvoiceDate = v
	case FieldVendor:
		f.Vendor = v
	case FieldTotalAmount:
		f.TotalAmount = v
	}
}

// cleanValue collapses whitespace and strips trailing label punctuation
// from a captured value.
func cleanValue(v string) string {
	v = collapseWS.ReplaceAllString(strings.TrimSpace(v), " ")
	return strings.TrimRight(v, " :;,.")
}
