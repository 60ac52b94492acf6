package extract

import "github.com/einvoice-tools/extractor/constants"

// FieldCheck is one evaluated entry of the confidence checklist.
type FieldCheck struct {
	Field     string
	Populated bool
}

// Checklist returns the ordered expected-field names evaluated for a
// document. Line items join the checklist only when at least one table
// grid was supplied.
func Checklist(hasTables bool) []string {
	fields := []string{
		constants.FieldInvoiceNumber,
		constants.FieldInvoiceDate,
		constants.FieldSellerID,
		constants.FieldBuyerID,
		constants.FieldSellerName,
		constants.FieldBuyerName,
		constants.FieldTotalAmount,
	}
	if hasTables {
		fields = append(fields, constants.FieldItems)
	}
	return fields
}

// Score is the fraction of populated checklist fields, in [0,1].
// An empty checklist scores 0.
func Score(checks []FieldCheck) float64 {
	if len(checks) == 0 {
		return 0.0
	}
	populated := 0
	for _, c := range checks {
		if c.Populated {
			populated++
		}
	}
	return float64(populated) / float64(len(checks))
}
