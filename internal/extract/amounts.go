package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Keyword-anchored figure patterns: a keyword, any non-digit filler
// (newlines included, so a label above its value still binds), then the
// nearest numeric token (thousands separators, up to two decimal places).
// The English alternatives carry \b so that "Total" never anchors inside
// "Subtotal"; the CJK alternatives cannot (Go's \b is ASCII-only).
var (
	reTotal    = regexp.MustCompile(`(?i)(?:合計|總計|總額|應付|\btotal)[^\d]*([\d,]+(?:\.\d{1,2})?)`)
	reTax      = regexp.MustCompile(`(?i)(?:營業稅|稅額|稅金|\btax)[^\d]*([\d,]+(?:\.\d{1,2})?)`)
	reSubtotal = regexp.MustCompile(`(?i)(?:小計|未稅|銷售額|\bsubtotal)[^\d]*([\d,]+(?:\.\d{1,2})?)`)
)

// Figures holds the keyword-anchored monetary figures of one document.
// A nil field means the figure was absent or its token failed to parse.
type Figures struct {
	Subtotal *float64
	Tax      *float64
	Total    *float64
}

// ResolveAmounts searches text independently for the total, tax, and
// subtotal figures. A malformed token yields that figure's absence and
// never blocks the other two. A missing subtotal with total and tax both
// present is derived as total - tax.
func ResolveAmounts(text string) Figures {
	f := Figures{
		Total:    findFigure(reTotal, text),
		Tax:      findFigure(reTax, text),
		Subtotal: findFigure(reSubtotal, text),
	}
	if f.Subtotal == nil && f.Total != nil && f.Tax != nil {
		derived := *f.Total - *f.Tax
		f.Subtotal = &derived
	}
	return f
}

func findFigure(re *regexp.Regexp, text string) *float64 {
	g := re.FindStringSubmatch(text)
	if g == nil {
		return nil
	}
	v, ok := parseDecimal(g[1])
	if !ok {
		return nil
	}
	return &v
}

// parseDecimal parses a numeric token after stripping thousands
// separators. Returns ok=false on malformed text.
func parseDecimal(s string) (float64, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
