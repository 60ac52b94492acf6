package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAmounts(t *testing.T) {
	t.Run("all three present", func(t *testing.T) {
		f := ResolveAmounts("小計 1,000\n營業稅 50\n合計 1,050")
		require.NotNil(t, f.Subtotal)
		require.NotNil(t, f.Tax)
		require.NotNil(t, f.Total)
		assert.Equal(t, 1000.0, *f.Subtotal)
		assert.Equal(t, 50.0, *f.Tax)
		assert.Equal(t, 1050.0, *f.Total)
	})

	t.Run("subtotal derived from total minus tax", func(t *testing.T) {
		f := ResolveAmounts("合計 1,050\n稅額 50")
		require.NotNil(t, f.Subtotal)
		assert.Equal(t, 1000.0, *f.Subtotal)
	})

	t.Run("no derivation without tax", func(t *testing.T) {
		f := ResolveAmounts("合計 1,050")
		assert.Nil(t, f.Subtotal)
		assert.Nil(t, f.Tax)
		require.NotNil(t, f.Total)
		assert.Equal(t, 1050.0, *f.Total)
	})

	t.Run("english keywords", func(t *testing.T) {
		f := ResolveAmounts("Subtotal: 100.50\nTax: 5.02\nTotal: 105.52")
		require.NotNil(t, f.Subtotal)
		assert.Equal(t, 100.50, *f.Subtotal)
		require.NotNil(t, f.Total)
		assert.Equal(t, 105.52, *f.Total)
	})

	t.Run("label above its value binds across the newline", func(t *testing.T) {
		f := ResolveAmounts("合計\n1050")
		require.NotNil(t, f.Total)
		assert.Equal(t, 1050.0, *f.Total)
	})

	t.Run("non-digit filler between label and value is skipped", func(t *testing.T) {
		f := ResolveAmounts("合計\n其他 1050")
		require.NotNil(t, f.Total)
		assert.Equal(t, 1050.0, *f.Total)
	})

	t.Run("currency filler between keyword and token", func(t *testing.T) {
		f := ResolveAmounts("合計 NT$ 1,050")
		require.NotNil(t, f.Total)
		assert.Equal(t, 1050.0, *f.Total)
	})

	t.Run("one figure missing does not block others", func(t *testing.T) {
		f := ResolveAmounts("稅額 50 only")
		assert.Nil(t, f.Total)
		assert.Nil(t, f.Subtotal)
		require.NotNil(t, f.Tax)
		assert.Equal(t, 50.0, *f.Tax)
	})

	t.Run("empty text", func(t *testing.T) {
		f := ResolveAmounts("")
		assert.Nil(t, f.Subtotal)
		assert.Nil(t, f.Tax)
		assert.Nil(t, f.Total)
	})
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{"1,050", 1050, true},
		{"1050.25", 1050.25, true},
		{" 42 ", 42, true},
		{"", 0, false},
		{"abc", 0, false},
		{",", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseDecimal(tt.in)
		assert.Equal(t, tt.wantOK, ok, "parseDecimal(%q)", tt.in)
		assert.Equal(t, tt.want, got, "parseDecimal(%q)", tt.in)
	}
}
