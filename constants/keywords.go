package constants

import "strings"

// Column-role keyword sets used by the table header decision procedure.
// Matching is substring-based on lowercased cell text, so truncated
// headers like "Quantit" still register.
var (
	DescriptionKeywords = []string{"description", "desc", "item", "product", "service", "details"}
	QuantityKeywords    = []string{"quantity", "qty", "quantit", "units", "hours"}
	UnitPriceKeywords   = []string{"unit price", "unitprice", "price", "rate", "unit cost"}
	AmountKeywords      = []string{"amount", "total", "line total", "cost", "value", "net"}
)

// SummaryRowKeywords mark table rows that aggregate rather than itemize.
// Such rows are dropped before line items are emitted.
var SummaryRowKeywords = []string{
	"total", "subtotal", "sub-total", "grand total",
	"vat", "tax", "net", "gross", "balance",
	"amount due", "balance due", "shipping", "delivery", "discount",
}

// FallbackSkipKeywords exclude text lines already claimed by invoice
// field recognition from the text-fallback line scan.
var FallbackSkipKeywords = []string{"total", "subtotal", "tax", "balance due", "vat"}

// ContainsAny reports whether the lowercased form of s contains any of
// the given keywords.
func ContainsAny(s string, keywords []string) bool {
	s = strings.ToLower(s)
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
