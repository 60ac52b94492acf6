package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/einvoice-tools/extractor/constants"
	"github.com/einvoice-tools/extractor/internal/common"
	"github.com/einvoice-tools/extractor/internal/document"
	"github.com/einvoice-tools/extractor/internal/entity"
)

// Outcome wraps an assembled record with its recomputed confidence and
// the checklist it was scored against.
type Outcome struct {
	Invoice    *entity.Invoice
	Confidence float64
	Checklist  []FieldCheck
}

// Extractor assembles one record per document. Stateless per call; the
// compiled pattern tables are package-level and shared read-only, so one
// Extractor may serve concurrent invocations on different documents.
type Extractor struct {
	taxRate float64
	logger  *slog.Logger
}

func NewExtractor(taxRate float64, logger *slog.Logger) *Extractor {
	if taxRate <= 0 {
		taxRate = constants.DefaultTaxRate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{taxRate: taxRate, logger: logger}
}

// FromText wraps a bare string in a single-page document and extracts it.
func (e *Extractor) FromText(text string) (*Outcome, error) {
	return e.FromDocument(document.FromText(text))
}

// FromDocument runs the pipeline stages over one document. Deterministic:
// identical input always yields an identical record. The only hard failure
// is a document-level error; a field not found is a normal outcome.
func (e *Extractor) FromDocument(doc *document.Document) (*Outcome, error) {
	if doc == nil || doc.Empty() {
		return nil, fmt.Errorf("%w: no text or tables", common.ErrInvalidDocument)
	}

	inv := entity.NewInvoice()
	inv.RawText = doc.RawText
	inv.Amounts.TaxRate = e.taxRate

	m := Scan(doc.RawText)
	inv.InvoiceNumber = m.InvoiceNumber
	inv.InvoiceDate = NormalizeDate(doc.RawText)
	inv.InvoiceType = detectInvoiceType(doc.RawText)

	sellerID, buyerID := assignTaxIDs(m)
	inv.Seller.ID = sellerID
	inv.Buyer.ID = buyerID

	sellerName, buyerName := assignNames(m.Names)
	inv.Seller.Name = sellerName
	inv.Buyer.Name = buyerName

	figures := ResolveAmounts(doc.RawText)
	if figures.Total != nil {
		inv.Amounts.Total = *figures.Total
	}
	if figures.Tax != nil {
		inv.Amounts.TaxAmount = *figures.Tax
	}
	if figures.Subtotal != nil {
		inv.Amounts.Subtotal = *figures.Subtotal
	}

	inv.Items = ExtractItems(doc.Tables)

	checks := evaluateChecklist(inv, len(doc.Tables) > 0)
	confidence := Score(checks)
	inv.Confidence = confidence

	e.logger.Debug("extract.document.ok",
		"invoice_number", inv.InvoiceNumber,
		"items", len(inv.Items),
		"confidence", confidence,
	)
	return &Outcome{Invoice: inv, Confidence: confidence, Checklist: checks}, nil
}

// detectInvoiceType recognizes the issuing form from its conventional
// wording: triplicate forms are B2B, duplicate forms B2C.
func detectInvoiceType(text string) string {
	switch {
	case strings.Contains(text, "三聯"):
		return string(constants.InvoiceTypeB2B)
	case strings.Contains(text, "二聯"):
		return string(constants.InvoiceTypeB2C)
	default:
		return ""
	}
}

// assignTaxIDs associates checksum-valid identifier candidates with the
// seller and buyer roles. With at least one label anchor in the text,
// each labeled role takes the nearest unused identifier at or after its
// anchor (a label introduces the value that follows it), falling back to
// the nearest preceding identifier when none follows; the unlabeled role
// takes the first left over. Without anchors the positional convention
// applies: first valid is the seller, second the buyer.
func assignTaxIDs(m Matches) (sellerID, buyerID string) {
	var valid []Candidate
	for _, c := range m.TaxIDs {
		if ValidTaxID(c.Value) {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return "", ""
	}

	if m.SellerAnchor < 0 && m.BuyerAnchor < 0 {
		sellerID = valid[0].Value
		if len(valid) > 1 {
			buyerID = valid[1].Value
		}
		return sellerID, buyerID
	}

	used := make([]bool, len(valid))
	pickNearest := func(anchor int) string {
		best := -1
		for i, c := range valid {
			if used[i] || c.Offset < anchor {
				continue
			}
			if best < 0 || c.Offset < valid[best].Offset {
				best = i
			}
		}
		if best < 0 {
			// nothing follows the label; the nearest preceding one stands in
			for i, c := range valid {
				if used[i] {
					continue
				}
				if best < 0 || c.Offset > valid[best].Offset {
					best = i
				}
			}
		}
		if best < 0 {
			return ""
		}
		used[best] = true
		return valid[best].Value
	}
	pickFirst := func() string {
		for i, c := range valid {
			if !used[i] {
				used[i] = true
				return c.Value
			}
		}
		return ""
	}

	if m.SellerAnchor >= 0 {
		sellerID = pickNearest(m.SellerAnchor)
	}
	if m.BuyerAnchor >= 0 {
		buyerID = pickNearest(m.BuyerAnchor)
	}
	if m.SellerAnchor < 0 {
		sellerID = pickFirst()
	}
	if m.BuyerAnchor < 0 {
		buyerID = pickFirst()
	}
	return sellerID, buyerID
}

// assignNames fills the party names: labeled candidates claim their role
// first, a business-entity label counts as the seller when that role is
// still open, then unlabeled legal-suffix candidates fill the remaining
// roles in first-seen order.
func assignNames(names []Candidate) (sellerName, buyerName string) {
	for _, c := range names {
		switch c.Role {
		case RoleSeller:
			if sellerName == "" {
				sellerName = c.Value
			}
		case RoleBuyer:
			if buyerName == "" {
				buyerName = c.Value
			}
		case RoleEntity:
			if sellerName == "" {
				sellerName = c.Value
			}
		}
	}
	for _, c := range names {
		if c.Role != RoleUnlabeled {
			continue
		}
		if c.Value == sellerName || c.Value == buyerName {
			continue
		}
		if sellerName == "" {
			sellerName = c.Value
			continue
		}
		if buyerName == "" {
			buyerName = c.Value
		}
	}
	return sellerName, buyerName
}

func evaluateChecklist(inv *entity.Invoice, hasTables bool) []FieldCheck {
	checks := make([]FieldCheck, 0, 8)
	for _, field := range Checklist(hasTables) {
		var populated bool
		switch field {
		case constants.FieldInvoiceNumber:
			populated = inv.InvoiceNumber != ""
		case constants.FieldInvoiceDate:
			populated = inv.InvoiceDate != ""
		case constants.FieldSellerID:
			populated = inv.Seller.ID != ""
		case constants.FieldBuyerID:
			populated = inv.Buyer.ID != ""
		case constants.FieldSellerName:
			populated = inv.Seller.Name != ""
		case constants.FieldBuyerName:
			populated = inv.Buyer.Name != ""
		case constants.FieldTotalAmount:
			populated = inv.Amounts.Total != 0
		case constants.FieldItems:
			populated = len(inv.Items) > 0
		}
		checks = append(checks, FieldCheck{Field: field, Populated: populated})
	}
	return checks
}

