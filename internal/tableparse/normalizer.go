// Package tableparse turns raw table grids into candidate line items by
// assigning column roles — from header keywords when a header row is
// recognizable, positionally otherwise — and parsing numeric cells
// leniently. Malformed grids degrade to zero items, never errors.
package tableparse

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/invoicetools/pdf2xlsx/constants"
	"github.com/invoicetools/pdf2xlsx/internal/entity"
)

// inferenceMode names the outcome of the header decision procedure so
// each case is independently testable.
type inferenceMode string

const (
	modeHeaderDetected     inferenceMode = "header-detected"
	modePositionalInferred inferenceMode = "positional-inferred"
)

// columnRoles maps grid columns to line-item fields. -1 means no column
// serves that role.
type columnRoles struct {
	mode        inferenceMode
	description int
	quantity    int
	unitPrice   int
	amount      int
	dataStart   int // index of the first data row
}

type Normalizer struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// Normalize converts one grid into zero or more table-sourced line items.
func (n *Normalizer) Normalize(grid entity.RawTableGrid) []entity.LineItem {
	if len(grid.Rows) == 0 {
		return nil
	}

	roles := inferRoles(grid.Rows)
	n.logger.Debug("tableparse.roles",
		"page", grid.Page,
		"table", grid.Index,
		"mode", string(roles.mode),
		"description_col", roles.description,
		"amount_col", roles.amount,
	)

	var items []entity.LineItem
	for _, row := range grid.Rows[roles.dataStart:] {
		if item, ok := normalizeRow(row, roles, grid); ok {
			items = append(items, item)
		}
	}
	return items
}

// inferRoles runs the header decision procedure: the first row is a
// header when at least one cell matches a column-role keyword set;
// otherwise every row is data and roles are assigned by position. When
// several columns compete for the amount role, the rightmost wins —
// invoice tables conventionally place totals last.
func inferRoles(rows [][]string) columnRoles {
	roles := columnRoles{
		mode:        modePositionalInferred,
		description: -1,
		quantity:    -1,
		unitPrice:   -1,
		amount:      -1,
	}

	header := rows[0]
	matched := false
	for i, cell := range header {
		cell = strings.ToLower(strings.TrimSpace(cell))
		if cell == "" {
			continue
		}
		switch {
		case constants.ContainsAny(cell, constants.DescriptionKeywords):
			if roles.description == -1 {
				roles.description = i
			}
			matched = true
		case constants.ContainsAny(cell, constants.QuantityKeywords):
			if roles.quantity == -1 {
				roles.quantity = i
			}
			matched = true
		case constants.ContainsAny(cell, constants.UnitPriceKeywords):
			if roles.unitPrice == -1 {
				roles.unitPrice = i
			}
			matched = true
		case constants.ContainsAny(cell, constants.AmountKeywords):
			// Rightmost amount candidate wins.
			roles.amount = i
			matched = true
		}
	}

	if matched {
		roles.mode = modeHeaderDetected
		roles.dataStart = 1
	}

	data := rows[roles.dataStart:]
	if roles.description == -1 {
		roles.description = firstTextColumn(data)
	}
	if roles.amount == -1 {
		roles.amount = lastNumericColumn(data, roles.description)
	}
	return roles
}

// firstTextColumn finds the leftmost column whose non-empty cells are
// predominantly non-numeric.
func firstTextColumn(rows [][]string) int {
	for c := 0; c < maxWidth(rows); c++ {
		text, numeric := 0, 0
		for _, row := range rows {
			if c >= len(row) || strings.TrimSpace(row[c]) == "" {
				continue
			}
			if LooksNumeric(row[c]) {
				numeric++
			} else {
				text++
			}
		}
		if text > numeric && text > 0 {
			return c
		}
	}
	return 0
}

// lastNumericColumn finds the rightmost column whose non-empty cells
// are predominantly numeric, skipping the description column.
func lastNumericColumn(rows [][]string, skip int) int {
	for c := maxWidth(rows) - 1; c >= 0; c-- {
		if c == skip {
			continue
		}
		text, numeric := 0, 0
		for _, row := range rows {
			if c >= len(row) || strings.TrimSpace(row[c]) == "" {
				continue
			}
			if LooksNumeric(row[c]) {
				numeric++
			} else {
				text++
			}
		}
		if numeric > 0 && numeric >= text {
			return c
		}
	}
	return -1
}

func maxWidth(rows [][]string) int {
	w := 0
	for _, row := range rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

func normalizeRow(row []string, roles columnRoles, grid entity.RawTableGrid) (entity.LineItem, bool) {
	if blankRow(row) {
		return entity.LineItem{}, false
	}
	if summaryRow(row) {
		return entity.LineItem{}, false
	}

	item := entity.LineItem{
		Source: constants.SourceTable,
		Page:   grid.Page,
		Table:  grid.Index,
	}
	item.Description = strings.TrimSpace(cellAt(row, roles.description))
	if item.Description == "" {
		return entity.LineItem{}, false
	}

	if v, ok := ParseAmount(cellAt(row, roles.quantity)); ok && roles.quantity != roles.description {
		item.Quantity = entity.Num(v)
	}
	if v, ok := ParseAmount(cellAt(row, roles.unitPrice)); ok && roles.unitPrice != roles.description {
		item.UnitPrice = entity.Num(v)
	}
	if v, ok := ParseAmount(cellAt(row, roles.amount)); ok && roles.amount != roles.description {
		item.Amount = entity.Num(v)
	}

	peelTrailingNumerics(&item)
	if item.Description == "" {
		return entity.LineItem{}, false
	}
	return item, true
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// summaryRow marks aggregate rows (totals, VAT, balance) that must not
// become line items.
func summaryRow(row []string) bool {
	joined := strings.ToLower(strings.Join(row, " "))
	return constants.ContainsAny(joined, constants.SummaryRowKeywords)
}

var (
	moneyToken = regexp.MustCompile(`^\d+\.\d{2}$`)
	plainToken = regexp.MustCompile(`^\d+\.?\d*$`)
)

// peelTrailingNumerics recovers quantity and unit price from a
// description cell that swallowed its neighbours when the grid collapsed
// columns, e.g. "Hosted Mailbox 14 2.50". Only fields still absent are
// filled, and the peeled tokens leave the description.
func peelTrailingNumerics(item *entity.LineItem) {
	if item.Quantity != nil && item.UnitPrice != nil {
		return
	}
	tokens := strings.Fields(item.Description)
	for len(tokens) > 1 {
		t := tokens[len(tokens)-1]
		switch {
		case moneyToken.MatchString(t) && item.UnitPrice == nil:
			v, _ := ParseAmount(t)
			item.UnitPrice = entity.Num(v)
		case plainToken.MatchString(t) && item.Quantity == nil:
			v, _ := ParseAmount(t)
			item.Quantity = entity.Num(v)
		default:
			item.Description = strings.Join(tokens, " ")
			return
		}
		tokens = tokens[:len(tokens)-1]
	}
	item.Description = strings.Join(tokens, " ")
}
