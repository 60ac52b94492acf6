package extract

// taxIDWeights are the per-position multipliers of the business tax
// identifier checksum.
var taxIDWeights = [8]int{1, 2, 1, 2, 1, 2, 4, 1}

// ValidTaxID reports whether s is a checksum-valid 8-digit business tax
// identifier. Anything that is not exactly 8 ASCII digits is a format
// rejection, not a checksum failure; both return false.
func ValidTaxID(s string) bool {
	if len(s) != 8 {
		return false
	}
	total := 0
	for i := 0; i < 8; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
		p := int(s[i]-'0') * taxIDWeights[i]
		// fold two-digit products (e.g. 12 -> 1+2)
		total += p/10 + p%10
	}
	if total%10 == 0 {
		return true
	}
	// identifiers with 7 in position 6 get a one-off compensation
	return s[6] == '7' && (total+1)%10 == 0
}
