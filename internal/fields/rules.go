package fields

import "regexp"

// Field names an invoice header field a rule can populate.
type Field string

const (
	FieldInvoiceNumber Field = "invoice_number"
	FieldInvoiceDate   Field = "invoice_date"
	FieldVendor        Field = "vendor"
	FieldTotalAmount   Field = "total_amount"
)

// Rule ties one compiled pattern to the field its first capture group
// populates. Rules are evaluated in table order; the first match wins
// for each field.
type Rule struct {
	Field   Field
	Pattern *regexp.Regexp
}

// DefaultRules returns the built-in rule table. Ordering is load-bearing:
// within a field, more specific labels come before looser ones.
func DefaultRules() []Rule {
	return []Rule{
		{FieldInvoiceNumber, regexp.MustCompile(`(?i)invoice\s*number\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9/_-]*)`)},
		{FieldInvoiceNumber, regexp.MustCompile(`(?i)invoice\s*no\.?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9/_-]*)`)},
		{FieldInvoiceNumber, regexp.MustCompile(`(?i)invoice\s*#\s*:?\s*([A-Za-z0-9][A-Za-z0-9/_-]*)`)},
		{FieldInvoiceNumber, regexp.MustCompile(`(?i)\binv\s*[#:]\s*([A-Za-z0-9][A-Za-z0-9/_-]*)`)},

		{FieldInvoiceDate, regexp.MustCompile(`(?i)invoice\s*date\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)},
		{FieldInvoiceDate, regexp.MustCompile(`(?i)\bdate\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)},
		{FieldInvoiceDate, regexp.MustCompile(`(?i)\bdate\s*:?\s*(\d{4}-\d{2}-\d{2})`)},
		{FieldInvoiceDate, regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)},

		{FieldVendor, regexp.MustCompile(`(?im)^\s*from\s*:\s*(\S[^\n]*)`)},
		{FieldVendor, regexp.MustCompile(`(?im)^\s*vendor\s*:?\s+(\S[^\n]*)`)},
		{FieldVendor, regexp.MustCompile(`(?im)^\s*company\s*:?\s+(\S[^\n]*)`)},

		{FieldTotalAmount, regexp.MustCompile(`(?i)grand\s*total\s*:?\s*\(?[$£€¥]?\s*(-?[0-9][0-9,]*(?:\.\d{1,2})?)`)},
		{FieldTotalAmount, regexp.MustCompile(`(?i)amount\s*due\s*:?\s*\(?[$£€¥]?\s*(-?[0-9][0-9,]*(?:\.\d{1,2})?)`)},
		{FieldTotalAmount, regexp.MustCompile(`(?i)balance\s*due\s*:?\s*\(?[$£€¥]?\s*(-?[0-9][0-9,]*(?:\.\d{1,2})?)`)},
		{FieldTotalAmount, regexp.MustCompile(`(?i)\btotal\s*:?\s*\(?[$£€¥]?\s*(-?[0-9][0-9,]*(?:\.\d{1,2})?)`)},
	}
}
