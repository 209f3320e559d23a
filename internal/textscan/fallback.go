// Package textscan recovers line items directly from raw page text when
// table detection produced nothing usable for a page.
package textscan

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/invoicetools/pdf2xlsx/constants"
	"github.com/invoicetools/pdf2xlsx/internal/entity"
	"github.com/invoicetools/pdf2xlsx/internal/tableparse"
)

// linePattern matches "some description ... 1,234.56" with an optional
// currency symbol on the trailing amount token.
var linePattern = regexp.MustCompile(`^(.{6,}?)\s+[$£€¥]?([0-9][0-9,]*(?:\.\d{1,2})?)\s*$`)

const (
	minLineLen = 15
	minDescLen = 6
)

type Extractor struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// Extract scans text line by line for description-plus-trailing-amount
// candidates. Lines that belong to recognized invoice fields (totals,
// tax, balance) are excluded so the fallback does not double-count them.
// Non-matching lines are ignored, never errors.
func (e *Extractor) Extract(text string, page int) []entity.LineItem {
	var items []entity.LineItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minLineLen {
			continue
		}
		m := linePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		desc := strings.TrimSpace(m[1])
		if len(desc) < minDescLen {
			continue
		}
		if constants.ContainsAny(desc, constants.FallbackSkipKeywords) {
			continue
		}

		amount, ok := tableparse.ParseAmount(m[2])
		if !ok {
			continue
		}
		items = append(items, entity.LineItem{
			Description: desc,
			Amount:      entity.Num(amount),
			Source:      constants.SourceText,
			Page:        page,
		})
	}

	if len(items) > 0 {
		e.logger.Debug("textscan.extract", "page", page, "items", len(items))
	}
	return items
}
