package entity

import "github.com/einvoice-tools/extractor/constants"

// Party is one side of an invoice (seller or buyer).
type Party struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Amounts carries the monetary figures of an invoice.
type Amounts struct {
	Subtotal  float64 `json:"subtotal"`
	TaxRate   float64 `json:"tax_rate"`
	TaxAmount float64 `json:"tax_amount"`
	Total     float64 `json:"total"`
}

// LineItem is one row of the invoice detail table.
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Amount    float64 `json:"amount"`
}

// NewLineItem derives the amount from quantity x price when it is not
// explicitly present, and floors it at zero. Quantity and price stand
// as given; an explicit zero quantity is a real value, not an absence.
func NewLineItem(name string, quantity, unitPrice, amount float64) LineItem {
	it := LineItem{Name: name, Quantity: quantity, UnitPrice: unitPrice, Amount: amount}
	if it.Amount == 0 && it.UnitPrice > 0 {
		it.Amount = it.Quantity * it.UnitPrice
	}
	if it.Amount < 0 {
		it.Amount = 0
	}
	return it
}

// Invoice is the assembled extraction record. Immutable after assembly;
// handed to downstream consumers as a value.
type Invoice struct {
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   string     `json:"invoice_date"`
	InvoiceType   string     `json:"invoice_type"`
	Seller        Party      `json:"seller"`
	Buyer         Party      `json:"buyer"`
	Amounts       Amounts    `json:"amounts"`
	Items         []LineItem `json:"items"`
	Confidence    float64    `json:"confidence"`

	// RawText is the source text the record was extracted from.
	// Excluded from the canonical JSON shape.
	RawText string `json:"-"`
}

// NewInvoice returns an empty record with defaults applied.
func NewInvoice() *Invoice {
	return &Invoice{
		Amounts: Amounts{TaxRate: constants.DefaultTaxRate},
		Items:   []LineItem{},
	}
}
