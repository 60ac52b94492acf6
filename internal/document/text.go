package document

import "strings"

// DecodeText builds a Document from a plain UTF-8 text dump.
// Pages split on form-feed when the dump carries page breaks,
// otherwise the whole dump is one page.
func DecodeText(raw []byte) *Document {
	text := string(raw)
	var pages []string
	if strings.Contains(text, "\f") {
		for _, p := range strings.Split(text, "\f") {
			pages = append(pages, Normalize(p))
		}
	} else {
		pages = []string{Normalize(text)}
	}
	return New(pages, nil)
}
