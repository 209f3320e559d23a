package reader

import (
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// segment is a horizontally contiguous run of glyphs within one row.
type segment struct {
	x0, x1 float64
	text   string
}

// textRow is one baseline-aligned line, segments ordered left to right.
type textRow struct {
	y        float64
	segments []segment
}

// clusterRows groups positioned glyphs into baseline rows and merges
// each row into segments, splitting on gaps wider than cfg.ColumnGap.
// PDF Y coordinates grow upward, so rows are ordered by descending Y.
func clusterRows(texts []pdf.Text, cfg Config) []textRow {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" {
			continue
		}
		glyphs = append(glyphs, t)
	}
	if len(glyphs) == 0 {
		return nil
	}

	sort.SliceStable(glyphs, func(i, j int) bool {
		if glyphs[i].Y != glyphs[j].Y {
			return glyphs[i].Y > glyphs[j].Y
		}
		return glyphs[i].X < glyphs[j].X
	})

	var rows []textRow
	for _, g := range glyphs {
		if len(rows) == 0 || rows[len(rows)-1].y-g.Y > cfg.RowTolerance {
			rows = append(rows, textRow{y: g.Y})
		}
		row := &rows[len(rows)-1]
		row.segments = appendGlyph(row.segments, g, cfg)
	}

	// Glyphs within a row tolerance band can arrive slightly out of X
	// order across different text-showing operators.
	for i := range rows {
		sort.SliceStable(rows[i].segments, func(a, b int) bool {
			return rows[i].segments[a].x0 < rows[i].segments[b].x0
		})
	}
	return rows
}

func appendGlyph(segs []segment, g pdf.Text, cfg Config) []segment {
	if len(segs) == 0 {
		return []segment{{x0: g.X, x1: g.X + g.W, text: g.S}}
	}
	last := &segs[len(segs)-1]
	gap := g.X - last.x1
	if gap > cfg.ColumnGap {
		return append(segs, segment{x0: g.X, x1: g.X + g.W, text: g.S})
	}
	if gap > wordGap(g.FontSize) {
		last.text += " "
	}
	last.text += g.S
	if g.X+g.W > last.x1 {
		last.x1 = g.X + g.W
	}
	return segs
}

// wordGap is the inter-glyph distance treated as a space.
func wordGap(fontSize float64) float64 {
	g := 0.27 * fontSize
	if g < 1.0 {
		g = 1.0
	}
	return g
}

// renderText flattens rows back into plain page text. Segments are
// joined with a double space so cell boundaries stay visible to the
// text-fallback scanner.
func renderText(rows []textRow) string {
	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, seg := range row.segments {
			if j > 0 {
				b.WriteString("  ")
			}
			b.WriteString(seg.text)
		}
	}
	return b.String()
}

// detectGrids finds maximal runs of consecutive multi-segment rows whose
// segments align on shared column starts, and materializes each run as a
// cell grid. Rows inside a grid keep their positional cell order; short
// rows yield trailing empty cells.
func detectGrids(rows []textRow, cfg Config) [][][]string {
	var grids [][][]string
	for start := 0; start < len(rows); {
		if len(rows[start].segments) < cfg.MinGridCols {
			start++
			continue
		}
		end := start
		for end+1 < len(rows) && len(rows[end+1].segments) >= cfg.MinGridCols {
			end++
		}
		if run := rows[start : end+1]; len(run) >= cfg.MinGridRows {
			if grid := buildGrid(run, cfg); grid != nil {
				grids = append(grids, grid)
			}
		}
		start = end + 1
	}
	return grids
}

func buildGrid(run []textRow, cfg Config) [][]string {
	cols := columnStarts(run, cfg.ColumnGap/2)
	if len(cols) < cfg.MinGridCols {
		return nil
	}

	tol := cfg.ColumnGap / 2
	grid := make([][]string, 0, len(run))
	for _, row := range run {
		cells := make([]string, len(cols))
		for _, seg := range row.segments {
			c := columnFor(cols, seg.x0, tol)
			if cells[c] != "" {
				cells[c] += " "
			}
			cells[c] += seg.text
		}
		grid = append(grid, cells)
	}
	return grid
}

// columnStarts clusters segment start positions across the run into
// column anchors.
func columnStarts(run []textRow, tol float64) []float64 {
	var starts []float64
	for _, row := range run {
		for _, seg := range row.segments {
			starts = append(starts, seg.x0)
		}
	}
	sort.Float64s(starts)

	var cols []float64
	for _, x := range starts {
		if len(cols) == 0 || x-cols[len(cols)-1] > tol {
			cols = append(cols, x)
		}
	}
	return cols
}

// columnFor maps a segment start to the nearest column anchor at or
// left of it.
func columnFor(cols []float64, x0, tol float64) int {
	idx := 0
	for i, c := range cols {
		if c <= x0+tol {
			idx = i
		}
	}
	return idx
}
