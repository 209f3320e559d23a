// Package reconcile merges table-sourced and text-sourced line-item
// candidates for one document into a single deduplicated sequence.
// Table-derived items carry higher trust and always win ties.
package reconcile

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/invoicetools/pdf2xlsx/constants"
	"github.com/invoicetools/pdf2xlsx/internal/entity"
)

// Options holds the duplicate-detection tolerances. The effective
// tolerance for a pair of amounts is max(AbsTolerance, RelTolerance *
// larger magnitude). Defaults are provisional pending product input.
type Options struct {
	AbsTolerance float64
	RelTolerance float64
}

func (o Options) withDefaults() Options {
	if o.AbsTolerance <= 0 {
		o.AbsTolerance = 0.01
	}
	if o.RelTolerance <= 0 {
		o.RelTolerance = 0.001
	}
	return o
}

var collapseWS = regexp.MustCompile(`\s+`)

// Merge deduplicates the union of candidates for one document.
//
// Rules, in order:
//   - candidates with an empty trimmed description are dropped;
//   - table-sourced items are kept in full;
//   - text-sourced items are admitted only for pages with no
//     table-sourced items, and only when no kept item already matches
//     (same normalized description, amount within tolerance);
//   - output order is stable by (page, original discovery order).
func Merge(items []entity.LineItem, opts Options) []entity.LineItem {
	opts = opts.withDefaults()

	type candidate struct {
		entity.LineItem
		idx int
	}

	var kept []candidate
	pagesWithTable := map[int]bool{}
	for i, it := range items {
		it.Description = strings.TrimSpace(it.Description)
		if it.Description == "" {
			continue
		}
		if it.Source == constants.SourceTable {
			kept = append(kept, candidate{it, i})
			pagesWithTable[it.Page] = true
		}
	}

	for i, it := range items {
		if it.Source != constants.SourceText {
			continue
		}
		it.Description = strings.TrimSpace(it.Description)
		if it.Description == "" {
			continue
		}
		if pagesWithTable[it.Page] {
			continue
		}
		dup := false
		for _, k := range kept {
			if normalizeDesc(k.Description) == normalizeDesc(it.Description) &&
				amountsClose(k.Amount, it.Amount, opts) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		kept = append(kept, candidate{it, i})
	}

	sort.SliceStable(kept, func(a, b int) bool {
		if kept[a].Page != kept[b].Page {
			return kept[a].Page < kept[b].Page
		}
		return kept[a].idx < kept[b].idx
	})

	out := make([]entity.LineItem, 0, len(kept))
	for _, k := range kept {
		out = append(out, k.LineItem)
	}
	return out
}

func normalizeDesc(s string) string {
	return collapseWS.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

func amountsClose(a, b *float64, opts Options) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	larger := math.Max(math.Abs(*a), math.Abs(*b))
	tol := math.Max(opts.AbsTolerance, opts.RelTolerance*larger)
	return math.Abs(*a-*b) <= tol
}
