package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Category names one pattern family of the matcher.
type Category string

const (
	CategoryInvoiceNumber Category = "invoice_number"
	CategoryTaxID         Category = "tax_id"
	CategoryDateROC       Category = "date_roc"
	CategoryDateGregorian Category = "date_gregorian"
	CategorySellerLabel   Category = "seller_label"
	CategoryBuyerLabel    Category = "buyer_label"
	CategoryEntityLabel   Category = "entity_label"
	CategoryCompanyName   Category = "company_name"
)

// Compiled once at init and shared read-only across invocations.
var (
	reInvoiceNumber = regexp.MustCompile(`[A-Z][A-D][-\s]?\d{8}`)
	reTaxID         = regexp.MustCompile(`\b\d{8}\b`)
	reDateROC       = regexp.MustCompile(`\b(\d{2,3})\s*[年/]\s*(\d{1,2})\s*[月/]\s*(\d{1,2})\s*日?`)
	reDateGregorian = regexp.MustCompile(`(\d{4})[-/](\d{1,2})[-/](\d{1,2})`)
	reSellerLabel   = regexp.MustCompile(`賣方(?:名稱)?\s*[:：]\s*(\S{2,40})`)
	reBuyerLabel    = regexp.MustCompile(`買方(?:名稱)?\s*[:：]\s*(\S{2,40})`)
	reEntityLabel   = regexp.MustCompile(`營業人(?:名稱)?\s*[:：]\s*(\S{2,40})`)
	reCompanyName   = regexp.MustCompile(`[\p{Han}Ａ-Ｚａ-ｚA-Za-z0-9]{1,24}(?:股份有限公司|有限公司|公司|企業|行號|商行|工廠|事務所)`)
)

type rule struct {
	category Category
	re       *regexp.Regexp
}

// rules is the matcher dispatch table. Order is the evaluation priority;
// never replace this with a keyed map.
var rules = []rule{
	{CategoryInvoiceNumber, reInvoiceNumber},
	{CategoryTaxID, reTaxID},
	{CategoryDateROC, reDateROC},
	{CategoryDateGregorian, reDateGregorian},
	{CategorySellerLabel, reSellerLabel},
	{CategoryBuyerLabel, reBuyerLabel},
	{CategoryEntityLabel, reEntityLabel},
	{CategoryCompanyName, reCompanyName},
}

// Role is the association hint carried by a name candidate.
type Role int

const (
	RoleUnlabeled Role = iota
	RoleSeller
	RoleBuyer
	RoleEntity
)

// Candidate is one matched value with its byte offset in the source text.
type Candidate struct {
	Value  string
	Offset int
	Role   Role
}

// Matches is the result of one matcher pass over a document's text.
// A category with no match yields its zero value, never an error.
type Matches struct {
	InvoiceNumber string
	TaxIDs        []Candidate
	DateROC       string
	DateGregorian string
	Names         []Candidate
	SellerAnchor  int // byte offset of the first seller label, -1 when absent
	BuyerAnchor   int // byte offset of the first buyer label, -1 when absent
}

// Scan applies the rule table to text in priority order. Pure function;
// first-match-wins for the scalar categories, all non-overlapping matches
// (first-seen order, deduplicated by value) for identifiers and names.
func Scan(text string) Matches {
	m := Matches{SellerAnchor: -1, BuyerAnchor: -1}
	for _, r := range rules {
		switch r.category {
		case CategoryInvoiceNumber:
			if loc := r.re.FindString(text); loc != "" {
				m.InvoiceNumber = canonicalizeInvoiceNumber(loc)
			}
		case CategoryTaxID:
			for _, idx := range r.re.FindAllStringIndex(text, -1) {
				m.TaxIDs = append(m.TaxIDs, Candidate{Value: text[idx[0]:idx[1]], Offset: idx[0]})
			}
			m.TaxIDs = dedupCandidates(m.TaxIDs)
		case CategoryDateROC:
			m.DateROC = r.re.FindString(text)
		case CategoryDateGregorian:
			m.DateGregorian = r.re.FindString(text)
		case CategorySellerLabel:
			m.Names = appendLabeled(m.Names, r.re, text, RoleSeller)
		case CategoryBuyerLabel:
			m.Names = appendLabeled(m.Names, r.re, text, RoleBuyer)
		case CategoryEntityLabel:
			m.Names = appendLabeled(m.Names, r.re, text, RoleEntity)
		case CategoryCompanyName:
			for _, idx := range r.re.FindAllStringIndex(text, -1) {
				m.Names = append(m.Names, Candidate{Value: text[idx[0]:idx[1]], Offset: idx[0]})
			}
		}
	}
	m.Names = filterNames(m.Names)
	// role anchors come from the bare labels so that identifier proximity
	// works even when the label introduces an id rather than a name
	m.SellerAnchor = strings.Index(text, "賣方")
	m.BuyerAnchor = strings.Index(text, "買方")
	return m
}

func canonicalizeInvoiceNumber(s string) string {
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, " ", "")
}

func appendLabeled(names []Candidate, re *regexp.Regexp, text string, role Role) []Candidate {
	for _, idx := range re.FindAllStringSubmatchIndex(text, -1) {
		names = append(names, Candidate{Value: text[idx[2]:idx[3]], Offset: idx[2], Role: role})
	}
	return names
}

// filterNames drops too-short candidates and duplicates by value,
// keeping the first occurrence. Labeled candidates were appended before
// the plain suffix matches, so a label wins over a suffix duplicate.
func filterNames(names []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(names))
	out := names[:0]
	for _, c := range names {
		c.Value = strings.TrimSpace(c.Value)
		if utf8.RuneCountInString(c.Value) < 2 {
			continue
		}
		if _, ok := seen[c.Value]; ok {
			continue
		}
		seen[c.Value] = struct{}{}
		out = append(out, c)
	}
	return out
}

func dedupCandidates(cands []Candidate) []Candidate {
	seen := make(map[string]struct{}, len(cands))
	out := cands[:0]
	for _, c := range cands {
		if _, ok := seen[c.Value]; ok {
			continue
		}
		seen[c.Value] = struct{}{}
		out = append(out, c)
	}
	return out
}
