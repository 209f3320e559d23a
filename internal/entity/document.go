package entity

// Document is the in-memory view of one readable PDF, produced by the
// reader and discarded once its ExtractionResult exists.
type Document struct {
	Filename  string `json:"filename"`
	Path      string `json:"path"`
	FileSize  int64  `json:"file_size"`
	PageCount int    `json:"page_count"`
	Pages     []Page `json:"pages"`
}

// Page holds one page's raw text (possibly empty) and any table grids
// detected on it, in reading order.
type Page struct {
	Number int            `json:"number"`
	Text   string         `json:"text"`
	Tables []RawTableGrid `json:"tables,omitempty"`
}

// RawTableGrid is the unprocessed cell structure of one detected table,
// prior to any column-role assignment. Rows need not share a length.
// A grid is never emitted empty.
type RawTableGrid struct {
	Page  int        `json:"page"`
	Index int        `json:"index"` // 1-based within the page
	Rows  [][]string `json:"rows"`
}

// Text returns the concatenation of all page text, in page order.
func (d *Document) Text() string {
	var out string
	for _, p := range d.Pages {
		if p.Text == "" {
			continue
		}
		if out != "" {
			out += "\n"
		}
		out += p.Text
	}
	return out
}

// AllTables returns every grid across all pages, in page order.
func (d *Document) AllTables() []RawTableGrid {
	var out []RawTableGrid
	for _, p := range d.Pages {
		out = append(out, p.Tables...)
	}
	return out
}
