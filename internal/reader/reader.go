// Package reader opens PDF documents and yields per-page raw text and
// structural table grids. It reads the embedded text layer only; scanned
// documents without one come back as pages with empty text.
package reader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ledongthuc/pdf"

	"github.com/invoicetools/pdf2xlsx/internal/common"
	"github.com/invoicetools/pdf2xlsx/internal/entity"
)

// Config holds the layout-analysis thresholds, in PDF points.
type Config struct {
	RowTolerance float64 // Y distance grouping glyphs into one row
	ColumnGap    float64 // X gap splitting a row into cells
	MinGridRows  int     // consecutive multi-cell rows required for a grid
	MinGridCols  int     // aligned columns required for a grid
}

type Reader struct {
	cfg    Config
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.RowTolerance <= 0 {
		cfg.RowTolerance = 2.0
	}
	if cfg.ColumnGap <= 0 {
		cfg.ColumnGap = 18.0
	}
	if cfg.MinGridRows < 2 {
		cfg.MinGridRows = 2
	}
	if cfg.MinGridCols < 2 {
		cfg.MinGridCols = 2
	}
	return &Reader{cfg: cfg, logger: logger}
}

// Open reads the document at path. Any open or decode failure surfaces
// as common.ErrDocumentUnreadable; pages without a text layer are valid
// and yield empty text.
func (r *Reader) Open(ctx context.Context, path string) (doc *entity.Document, err error) {
	// The pdf package panics on some malformed cross-reference tables;
	// fold those into the unreadable error instead of crashing the batch.
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = common.Unreadable(path, fmt.Errorf("pdf parse panic: %v", rec))
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, common.Unreadable(path, err)
	}
	if info.Size() == 0 {
		return nil, common.Unreadable(path, fmt.Errorf("zero-length file"))
	}

	f, pr, err := pdf.Open(path)
	if err != nil {
		return nil, common.Unreadable(path, err)
	}
	defer f.Close()

	doc = &entity.Document{
		Filename:  filepath.Base(path),
		Path:      path,
		FileSize:  info.Size(),
		PageCount: pr.NumPage(),
	}

	for n := 1; n <= doc.PageCount; n++ {
		page := r.readPage(pr, n)
		doc.Pages = append(doc.Pages, page)
	}

	r.logger.Debug("reader.open",
		"path", path,
		"pages", doc.PageCount,
		"tables", len(doc.AllTables()),
	)
	return doc, nil
}

// readPage extracts one page, isolating per-page parse failures: a page
// whose content cannot be decoded contributes empty text, not an error.
func (r *Reader) readPage(pr *pdf.Reader, n int) (out entity.Page) {
	out = entity.Page{Number: n}
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("reader.page.unparseable", "page", n, "cause", fmt.Sprint(rec))
			out = entity.Page{Number: n}
		}
	}()

	p := pr.Page(n)
	if p.V.IsNull() {
		return out
	}

	rows := clusterRows(p.Content().Text, r.cfg)
	out.Text = renderText(rows)
	for i, grid := range detectGrids(rows, r.cfg) {
		out.Tables = append(out.Tables, entity.RawTableGrid{
			Page:  n,
			Index: i + 1,
			Rows:  grid,
		})
	}
	return out
}
