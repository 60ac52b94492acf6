package constants

// InvoiceType is the issuing format of a uniform invoice.
type InvoiceType string

const (
	InvoiceTypeB2B InvoiceType = "B2B" // triplicate form, buyer carries a tax ID
	InvoiceTypeB2C InvoiceType = "B2C" // duplicate form
)

// DefaultTaxRate is the statutory business tax rate applied when no
// explicit rate is recoverable from the document.
const DefaultTaxRate = 0.05

// Canonical expected-field names shared by the confidence checklist,
// the archive columns, and the exporter.
const (
	FieldInvoiceNumber = "invoice_number"
	FieldInvoiceDate   = "invoice_date"
	FieldSellerID      = "seller_id"
	FieldBuyerID       = "buyer_id"
	FieldSellerName    = "seller_name"
	FieldBuyerName     = "buyer_name"
	FieldTotalAmount   = "total_amount"
	FieldItems         = "items"
)
