package pipeline

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/invoicetools/pdf2xlsx/constants"
	"github.com/invoicetools/pdf2xlsx/internal/entity"
)

func TestPipeline(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Pipeline Suite")
}

type fakeOpener struct {
	doc *entity.Document
	err error
}

func (f *fakeOpener) Open(ctx context.Context, path string) (*entity.Document, error) {
	return f.doc, f.err
}

type fakeFields struct {
	fields entity.InvoiceFields
}

func (f *fakeFields) Recognize(text string) entity.InvoiceFields {
	return f.fields
}

type fakeTables struct {
	perGrid map[int][]entity.LineItem // keyed by grid index
}

func (f *fakeTables) Normalize(grid entity.RawTableGrid) []entity.LineItem {
	return f.perGrid[grid.Index]
}

type fakeText struct {
	perPage map[int][]entity.LineItem
	calls   []int
}

func (f *fakeText) Extract(text string, page int) []entity.LineItem {
	f.calls = append(f.calls, page)
	return f.perPage[page]
}

var _ = Describe("Processor", func() {
	var (
		opener *fakeOpener
		fields *fakeFields
		tables *fakeTables
		text   *fakeText
		opts   Options
		events []DocumentEvent

		result entity.ExtractionResult
	)

	BeforeEach(func() {
		opener = &fakeOpener{}
		fields = &fakeFields{}
		tables = &fakeTables{perGrid: map[int][]entity.LineItem{}}
		text = &fakeText{perPage: map[int][]entity.LineItem{}}
		opts = Options{ExtractTables: true, ExtractText: true}
		events = nil
	})

	JustBeforeEach(func() {
		p := NewProcessor(nil, opener, fields, tables, text, opts)
		p.OnEvent = func(ev DocumentEvent) { events = append(events, ev) }
		result = p.Process(context.Background(), "/in/invoice.pdf")
	})

	When("the document cannot be opened", func() {
		BeforeEach(func() {
			opener.err = errors.New("document unreadable: /in/invoice.pdf")
		})

		It("returns a failed result with the message", func() {
			Expect(result.Status).To(Equal(constants.DocStatusFailed))
			Expect(result.ErrorMessage).To(ContainSubstring("unreadable"))
			Expect(result.Filename).To(Equal("invoice.pdf"))
		})

		It("still emits a document event", func() {
			Expect(events).To(HaveLen(1))
			Expect(events[0].Status).To(Equal(constants.DocStatusFailed))
		})
	})

	When("tables yield line items", func() {
		BeforeEach(func() {
			opener.doc = &entity.Document{
				Filename:  "invoice.pdf",
				Path:      "/in/invoice.pdf",
				FileSize:  2048,
				PageCount: 1,
				Pages: []entity.Page{{
					Number: 1,
					Text:   "Invoice No: INV-1\nWidget A  20.00",
					Tables: []entity.RawTableGrid{{Page: 1, Index: 1, Rows: [][]string{{"x"}}}},
				}},
			}
			tables.perGrid[1] = []entity.LineItem{{
				Description: "Widget A",
				Amount:      entity.Num(20.0),
				Source:      constants.SourceTable,
				Page:        1,
				Table:       1,
			}}
			text.perPage[1] = []entity.LineItem{{
				Description: "Should not appear",
				Amount:      entity.Num(1.0),
				Source:      constants.SourceText,
				Page:        1,
			}}
		})

		It("reports success", func() {
			Expect(result.Status).To(Equal(constants.DocStatusSuccess))
			Expect(result.LineItems).To(HaveLen(1))
			Expect(result.LineItems[0].Source).To(Equal(constants.SourceTable))
		})

		It("suppresses the text fallback for that page", func() {
			Expect(text.calls).To(BeEmpty())
		})

		It("carries document metadata through", func() {
			Expect(result.FileSize).To(Equal(int64(2048)))
			Expect(result.PageCount).To(Equal(1))
			Expect(result.Tables).To(HaveLen(1))
		})
	})

	When("a page has tables but none normalize to items", func() {
		BeforeEach(func() {
			opener.doc = &entity.Document{
				Filename:  "invoice.pdf",
				Path:      "/in/invoice.pdf",
				PageCount: 1,
				Pages: []entity.Page{{
					Number: 1,
					Text:   "Widget A  20.00",
					Tables: []entity.RawTableGrid{{Page: 1, Index: 1, Rows: [][]string{{"x"}}}},
				}},
			}
			text.perPage[1] = []entity.LineItem{{
				Description: "Widget A",
				Amount:      entity.Num(20.0),
				Source:      constants.SourceText,
				Page:        1,
			}}
		})

		It("runs the text fallback for that page", func() {
			Expect(text.calls).To(Equal([]int{1}))
			Expect(result.LineItems).To(HaveLen(1))
			Expect(result.LineItems[0].Source).To(Equal(constants.SourceText))
		})
	})

	When("the fallback decision is per page", func() {
		BeforeEach(func() {
			opener.doc = &entity.Document{
				Filename:  "invoice.pdf",
				Path:      "/in/invoice.pdf",
				PageCount: 2,
				Pages: []entity.Page{
					{
						Number: 1,
						Text:   "page one",
						Tables: []entity.RawTableGrid{{Page: 1, Index: 1, Rows: [][]string{{"x"}}}},
					},
					{Number: 2, Text: "page two"},
				},
			}
			tables.perGrid[1] = []entity.LineItem{{
				Description: "Widget A",
				Amount:      entity.Num(20.0),
				Source:      constants.SourceTable,
				Page:        1,
				Table:       1,
			}}
			text.perPage[2] = []entity.LineItem{{
				Description: "Late fee",
				Amount:      entity.Num(5.0),
				Source:      constants.SourceText,
				Page:        2,
			}}
		})

		It("falls back only on the table-less page", func() {
			Expect(text.calls).To(Equal([]int{2}))
			Expect(result.LineItems).To(HaveLen(2))
		})
	})

	When("nothing is extracted", func() {
		BeforeEach(func() {
			opener.doc = &entity.Document{
				Filename:  "blank.pdf",
				Path:      "/in/blank.pdf",
				PageCount: 1,
				Pages:     []entity.Page{{Number: 1}},
			}
		})

		It("reports a partial result", func() {
			Expect(result.Status).To(Equal(constants.DocStatusPartial))
			Expect(result.ErrorMessage).To(BeEmpty())
		})
	})

	When("only header fields are found", func() {
		BeforeEach(func() {
			opener.doc = &entity.Document{
				Filename:  "fieldsonly.pdf",
				Path:      "/in/fieldsonly.pdf",
				PageCount: 1,
				Pages:     []entity.Page{{Number: 1, Text: "Invoice No: INV-9"}},
			}
			fields.fields = entity.InvoiceFields{InvoiceNumber: "INV-9"}
			// no text fallback items for the page
		})

		It("still counts as success", func() {
			Expect(result.Status).To(Equal(constants.DocStatusSuccess))
			Expect(result.LineItems).To(BeEmpty())
		})
	})

	When("table extraction is disabled", func() {
		BeforeEach(func() {
			opts = Options{ExtractTables: false, ExtractText: true}
			opener.doc = &entity.Document{
				Filename:  "invoice.pdf",
				Path:      "/in/invoice.pdf",
				PageCount: 1,
				Pages:     []entity.Page{{Number: 1, Text: "Widget A  20.00"}},
			}
			text.perPage[1] = []entity.LineItem{{Description: "Widget A", Page: 1}}
		})

		It("produces no line items at all", func() {
			Expect(text.calls).To(BeEmpty())
			Expect(result.LineItems).To(BeEmpty())
		})
	})

	When("text extraction is disabled", func() {
		BeforeEach(func() {
			opts = Options{ExtractTables: true, ExtractText: false}
			fields.fields = entity.InvoiceFields{InvoiceNumber: "IGNORED"}
			opener.doc = &entity.Document{
				Filename:  "invoice.pdf",
				Path:      "/in/invoice.pdf",
				PageCount: 1,
				Pages:     []entity.Page{{Number: 1, Text: "Invoice No: INV-1"}},
			}
		})

		It("skips field recognition and the fallback", func() {
			Expect(result.Text).To(BeEmpty())
			Expect(result.Fields.Empty()).To(BeTrue())
			Expect(text.calls).To(BeEmpty())
		})
	})
})
