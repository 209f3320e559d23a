package constants

// DocStatus is the canonical per-document extraction outcome.
type DocStatus string

// Stable values (written verbatim into the Summary sheet).
const (
	DocStatusSuccess DocStatus = "success" // fields or line items recovered
	DocStatusPartial DocStatus = "partial" // readable but nothing usable found
	DocStatusFailed  DocStatus = "failed"  // document could not be read
)

// ItemSource tags which extraction path produced a line item.
type ItemSource string

const (
	SourceTable ItemSource = "table" // normalized from a detected table grid
	SourceText  ItemSource = "text"  // recovered from raw text lines
)
