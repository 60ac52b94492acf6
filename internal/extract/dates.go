package extract

import (
	"fmt"
	"strconv"
)

// rocEpochOffset converts a Republic-era year to the Gregorian calendar.
const rocEpochOffset = 1911

// NormalizeDate finds the first date token in text and renders it as
// zero-padded YYYY/MM/DD, or "" when no pattern matches. The ROC pattern
// is tried before the Gregorian one; a ROC-pattern year in [1,150] is
// offset by 1911, any other year is taken as already Gregorian.
// Textual transform only: no calendar validation of month/day values.
func NormalizeDate(text string) string {
	if g := reDateROC.FindStringSubmatch(text); g != nil {
		year, _ := strconv.Atoi(g[1])
		month, _ := strconv.Atoi(g[2])
		day, _ := strconv.Atoi(g[3])
		if year >= 1 && year <= 150 {
			year += rocEpochOffset
		}
		return fmt.Sprintf("%04d/%02d/%02d", year, month, day)
	}
	if g := reDateGregorian.FindStringSubmatch(text); g != nil {
		year, _ := strconv.Atoi(g[1])
		month, _ := strconv.Atoi(g[2])
		day, _ := strconv.Atoi(g[3])
		return fmt.Sprintf("%04d/%02d/%02d", year, month, day)
	}
	return ""
}
