// Package export renders a BatchReport into a four-sheet XLSX workbook.
// It is pure projection: no parsing, no mutation of the report.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/invoicetools/pdf2xlsx/internal/common"
	"github.com/invoicetools/pdf2xlsx/internal/entity"
)

// Sheet names, in workbook order. Stable; consumed downstream by name.
const (
	SheetSummary   = "Summary"
	SheetLineItems = "Line Items"
	SheetTextData  = "Text Data"
	SheetTables    = "Tables"
)

// Column headers per sheet. Stable, documented names — renaming them is
// a breaking change for spreadsheet consumers.
var (
	summaryHeaders   = []string{"Filename", "Pages", "Tables Found", "Line Items Found", "Has Text", "File Size (KB)", "Status"}
	lineItemHeaders  = []string{"Filename", "Page", "Description", "Amount", "Quantity", "Unit Price", "Source"}
	textDataHeaders  = []string{"Filename", "Invoice Number", "Invoice Date", "Vendor", "Total Amount", "Text Excerpt"}
	tablesHeaders    = []string{"Filename", "Page", "Table", "Row"} // cell values follow positionally
	tablesCellOffset = len(tablesHeaders)
)

// Service produces XLSX artifacts from batch reports.
type Service struct {
	cfg    common.ExportConfig
	logger *slog.Logger
}

func NewService(cfg common.ExportConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TextExcerptLimit <= 0 {
		cfg.TextExcerptLimit = 1000
	}
	return &Service{cfg: cfg, logger: logger}
}

// WriteXLSX returns the workbook for report as bytes.
func (s *Service) WriteXLSX(report *entity.BatchReport) ([]byte, error) {
	start := time.Now()

	f, err := s.BuildWorkbook(report)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"run_id", report.RunID.String(),
		"documents", len(report.Results),
		"line_items", report.TotalLineItems(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// BuildWorkbook renders the four sheets in their fixed order. Row order
// within each sheet follows report document order, then internal list
// order, so identical input yields an identical workbook.
func (s *Service) BuildWorkbook(report *entity.BatchReport) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, err
	}
	for _, name := range []string{SheetLineItems, SheetTextData, SheetTables} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	if idx, err := f.GetSheetIndex(SheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}

	s.writeSummary(f, report)
	s.writeLineItems(f, report)
	s.writeTextData(f, report)
	s.writeTables(f, report)
	return f, nil
}

func writeCell(f *excelize.File, sheet string, col, row int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheet, cell, v)
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		writeCell(f, sheet, i+1, 1, h)
	}
}

func (s *Service) writeSummary(f *excelize.File, report *entity.BatchReport) {
	writeHeaders(f, SheetSummary, summaryHeaders)

	row := 2
	for _, r := range report.Results {
		hasText := "No"
		if r.HasText() {
			hasText = "Yes"
		}
		writeCell(f, SheetSummary, 1, row, r.Filename)
		writeCell(f, SheetSummary, 2, row, r.PageCount)
		writeCell(f, SheetSummary, 3, row, len(r.Tables))
		writeCell(f, SheetSummary, 4, row, len(r.LineItems))
		writeCell(f, SheetSummary, 5, row, hasText)
		writeCell(f, SheetSummary, 6, row, fmt.Sprintf("%.1f", float64(r.FileSize)/1024))
		writeCell(f, SheetSummary, 7, row, string(r.Status))
		row++
	}

	_ = f.SetColWidth(SheetSummary, "A", "A", 36)
	_ = f.SetColWidth(SheetSummary, "B", "F", 14)
	_ = f.SetColWidth(SheetSummary, "G", "G", 10)
}

func (s *Service) writeLineItems(f *excelize.File, report *entity.BatchReport) {
	writeHeaders(f, SheetLineItems, lineItemHeaders)

	row := 2
	for _, r := range report.Results {
		for _, it := range r.LineItems {
			writeCell(f, SheetLineItems, 1, row, r.Filename)
			writeCell(f, SheetLineItems, 2, row, it.Page)
			writeCell(f, SheetLineItems, 3, row, it.Description)
			writeOptional(f, SheetLineItems, 4, row, it.Amount)
			writeOptional(f, SheetLineItems, 5, row, it.Quantity)
			writeOptional(f, SheetLineItems, 6, row, it.UnitPrice)
			writeCell(f, SheetLineItems, 7, row, string(it.Source))
			row++
		}
	}

	_ = f.SetColWidth(SheetLineItems, "A", "A", 36)
	_ = f.SetColWidth(SheetLineItems, "B", "B", 8)
	_ = f.SetColWidth(SheetLineItems, "C", "C", 48)
	_ = f.SetColWidth(SheetLineItems, "D", "F", 12)
	_ = f.SetColWidth(SheetLineItems, "G", "G", 10)
}

func writeOptional(f *excelize.File, sheet string, col, row int, v *float64) {
	if v == nil {
		return
	}
	writeCell(f, sheet, col, row, *v)
}

func (s *Service) writeTextData(f *excelize.File, report *entity.BatchReport) {
	writeHeaders(f, SheetTextData, textDataHeaders)

	row := 2
	for _, r := range report.Results {
		writeCell(f, SheetTextData, 1, row, r.Filename)
		writeCell(f, SheetTextData, 2, row, r.Fields.InvoiceNumber)
		writeCell(f, SheetTextData, 3, row, r.Fields.InvoiceDate)
		writeCell(f, SheetTextData, 4, row, r.Fields.Vendor)
		writeCell(f, SheetTextData, 5, row, r.Fields.TotalAmount)
		writeCell(f, SheetTextData, 6, row, excerpt(r.Text, s.cfg.TextExcerptLimit))
		row++
	}

	_ = f.SetColWidth(SheetTextData, "A", "A", 36)
	_ = f.SetColWidth(SheetTextData, "B", "E", 18)
	_ = f.SetColWidth(SheetTextData, "F", "F", 80)
}

func (s *Service) writeTables(f *excelize.File, report *entity.BatchReport) {
	writeHeaders(f, SheetTables, tablesHeaders)

	row := 2
	for _, r := range report.Results {
		for _, grid := range r.Tables {
			for rowIdx, cells := range grid.Rows {
				writeCell(f, SheetTables, 1, row, r.Filename)
				writeCell(f, SheetTables, 2, row, grid.Page)
				writeCell(f, SheetTables, 3, row, grid.Index)
				writeCell(f, SheetTables, 4, row, rowIdx+1)
				for c, cell := range cells {
					if cell == "" {
						continue
					}
					writeCell(f, SheetTables, tablesCellOffset+c+1, row, cell)
				}
				row++
			}
		}
	}

	_ = f.SetColWidth(SheetTables, "A", "A", 36)
	_ = f.SetColWidth(SheetTables, "B", "D", 8)
}

// excerpt truncates s to limit characters, backing up to the preceding
// word boundary when one is close; a hard cut only happens when the
// final word itself overruns the window.
func excerpt(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	cut := string(runes[:limit-1])
	if i := strings.LastIndexByte(cut, ' '); i >= 0 && len(cut)-i <= 24 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ") + "…"
}
