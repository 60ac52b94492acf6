package document

import "strings"

// Table is one recovered cell grid: rows of cells. Absent cells decode
// to ""; consumers cannot distinguish absent from empty.
type Table [][]string

// Document is one decoded input document: page texts, recovered table
// grids, and the newline-joined full text. Treated as immutable once a
// decoder hands it out.
type Document struct {
	Pages   []string
	Tables  []Table
	RawText string
}

// New builds a Document from pages and tables, deriving RawText.
func New(pages []string, tables []Table) *Document {
	return &Document{
		Pages:   pages,
		Tables:  tables,
		RawText: strings.Join(pages, "\n"),
	}
}

// FromText wraps a bare string as a single-page document with no tables.
func FromText(text string) *Document {
	return New([]string{text}, nil)
}

// Blocks returns the blank-line-separated text blocks across all pages,
// trimmed, empty blocks dropped.
func (d *Document) Blocks() []string {
	var blocks []string
	for _, page := range d.Pages {
		for _, b := range strings.Split(page, "\n\n") {
			b = strings.TrimSpace(b)
			if b != "" {
				blocks = append(blocks, b)
			}
		}
	}
	return blocks
}

// Empty reports whether the document carries neither text nor tables.
func (d *Document) Empty() bool {
	return strings.TrimSpace(d.RawText) == "" && len(d.Tables) == 0
}
