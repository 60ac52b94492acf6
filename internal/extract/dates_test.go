package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"roc with calendar characters", "113年5月20日", "2024/05/20"},
		{"roc with slashes", "113/05/20", "2024/05/20"},
		{"roc without day suffix", "發票日期 110年12月3", "2021/12/03"},
		{"gregorian dashes", "2024-05-20", "2024/05/20"},
		{"gregorian slashes", "2024/05/20", "2024/05/20"},
		{"roc year 150 is offset", "150/1/2", "2061/01/02"},
		{"year 151 is not offset", "151/1/2", "0151/01/02"},
		{"embedded in text", "日期：113年5月20日 號碼", "2024/05/20"},
		{"single-digit year is not a roc date", "5/6/7", ""},
		{"no date", "no dates here", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.text))
		})
	}
}

func TestNormalizeDateROCTriedFirst(t *testing.T) {
	// both calendars present: the ROC token wins even when the gregorian
	// token appears earlier in the text
	got := NormalizeDate("printed 2023-01-01, issued 113年5月20日")
	assert.Equal(t, "2024/05/20", got)
}
