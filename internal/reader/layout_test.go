package reader

import (
	"testing"

	"github.com/ledongthuc/pdf"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestReader(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Reader Suite")
}

func glyph(s string, x, y, w float64) pdf.Text {
	return pdf.Text{S: s, X: x, Y: y, W: w, FontSize: 10}
}

var _ = Describe("layout analysis", func() {
	var cfg Config

	BeforeEach(func() {
		cfg = Config{RowTolerance: 2.0, ColumnGap: 18.0, MinGridRows: 2, MinGridCols: 2}
	})

	Describe("clusterRows", func() {
		It("groups glyphs into baseline rows ordered top to bottom", func() {
			rows := clusterRows([]pdf.Text{
				glyph("Widget", 50, 688, 35),
				glyph("INVOICE", 50, 700, 50),
			}, cfg)

			Expect(rows).To(HaveLen(2))
			Expect(rows[0].segments[0].text).To(Equal("INVOICE"))
			Expect(rows[1].segments[0].text).To(Equal("Widget"))
		})

		It("merges glyphs within the row tolerance band", func() {
			rows := clusterRows([]pdf.Text{
				glyph("Invoice", 50, 700.5, 40),
				glyph("No:", 95, 700, 18),
			}, cfg)

			Expect(rows).To(HaveLen(1))
			Expect(rows[0].segments).To(HaveLen(1))
			Expect(rows[0].segments[0].text).To(Equal("Invoice No:"))
		})

		It("splits a row into segments on wide gaps", func() {
			rows := clusterRows([]pdf.Text{
				glyph("Description", 50, 700, 60),
				glyph("Amount", 400, 700, 40),
			}, cfg)

			Expect(rows).To(HaveLen(1))
			Expect(rows[0].segments).To(HaveLen(2))
			Expect(rows[0].segments[0].text).To(Equal("Description"))
			Expect(rows[0].segments[1].text).To(Equal("Amount"))
		})

		It("inserts word spaces for moderate gaps only", func() {
			rows := clusterRows([]pdf.Text{
				glyph("Wid", 50, 700, 18),
				glyph("get", 68, 700, 18), // contiguous, no space
				glyph("A", 92, 700, 6),    // word gap, space
			}, cfg)

			Expect(rows).To(HaveLen(1))
			Expect(rows[0].segments[0].text).To(Equal("Widget A"))
		})

		It("drops whitespace-only glyphs", func() {
			rows := clusterRows([]pdf.Text{
				glyph("  ", 50, 700, 5),
				glyph("", 60, 700, 0),
			}, cfg)

			Expect(rows).To(BeEmpty())
		})
	})

	Describe("renderText", func() {
		It("joins segments with double spaces and rows with newlines", func() {
			rows := clusterRows([]pdf.Text{
				glyph("Widget A", 50, 688, 45),
				glyph("20.00", 400, 688, 28),
				glyph("INVOICE", 50, 700, 50),
			}, cfg)

			Expect(renderText(rows)).To(Equal("INVOICE\nWidget A  20.00"))
		})
	})

	Describe("detectGrids", func() {
		// A header row plus two data rows sharing column anchors, framed
		// by single-segment prose lines that must stay outside the grid.
		tabular := func() []pdf.Text {
			return []pdf.Text{
				glyph("INVOICE", 50, 730, 50),
				glyph("Description", 50, 700, 60),
				glyph("Qty", 200, 700, 20),
				glyph("Unit Price", 300, 700, 55),
				glyph("Amount", 400, 700, 40),
				glyph("Widget A", 50, 688, 45),
				glyph("2", 200, 688, 6),
				glyph("10.00", 300, 688, 28),
				glyph("20.00", 400, 688, 28),
				glyph("Gadget B", 50, 676, 45),
				glyph("1", 200, 676, 6),
				glyph("5.00", 300, 676, 24),
				glyph("5.00", 400, 676, 24),
				glyph("Thank you for your business", 50, 640, 150),
			}
		}

		It("materializes aligned multi-segment runs as one grid", func() {
			grids := detectGrids(clusterRows(tabular(), cfg), cfg)

			Expect(grids).To(HaveLen(1))
			Expect(grids[0]).To(Equal([][]string{
				{"Description", "Qty", "Unit Price", "Amount"},
				{"Widget A", "2", "10.00", "20.00"},
				{"Gadget B", "1", "5.00", "5.00"},
			}))
		})

		It("pads short rows with empty cells at their column positions", func() {
			texts := append(tabular(),
				glyph("Shipping", 50, 664, 45),
				glyph("4.00", 400, 664, 24),
			)
			grids := detectGrids(clusterRows(texts, cfg), cfg)

			Expect(grids).To(HaveLen(1))
			Expect(grids[0]).To(HaveLen(4))
			Expect(grids[0][3]).To(Equal([]string{"Shipping", "", "", "4.00"}))
		})

		It("ignores isolated multi-segment rows", func() {
			grids := detectGrids(clusterRows([]pdf.Text{
				glyph("Subtotal", 50, 700, 45),
				glyph("20.00", 400, 700, 28),
				glyph("Thank you for your business", 50, 660, 150),
			}, cfg), cfg)

			Expect(grids).To(BeEmpty())
		})

		It("yields nothing for prose-only pages", func() {
			grids := detectGrids(clusterRows([]pdf.Text{
				glyph("Dear customer,", 50, 700, 80),
				glyph("please find attached.", 50, 688, 110),
			}, cfg), cfg)

			Expect(grids).To(BeEmpty())
		})
	})
})
