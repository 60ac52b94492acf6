package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/einvoice-tools/extractor/internal/document"
)

func TestExtractItems(t *testing.T) {
	t.Run("header row after a title row", func(t *testing.T) {
		grid := document.Table{
			{"統一發票明細", "", "", ""},
			{"品名", "數量", "單價", "金額"},
			{"商品A", "2", "100", "200"},
			{"商品B", "3", "50", ""},
		}
		items := ExtractItems([]document.Table{grid})
		require.Len(t, items, 2)
		assert.Equal(t, "商品A", items[0].Name)
		assert.Equal(t, 2.0, items[0].Quantity)
		assert.Equal(t, 100.0, items[0].UnitPrice)
		assert.Equal(t, 200.0, items[0].Amount)
		// amount absent -> derived from quantity x price
		assert.Equal(t, 150.0, items[1].Amount)
	})

	t.Run("quantity parse failure keeps default", func(t *testing.T) {
		grid := document.Table{
			{"品名", "數量", "單價"},
			{"商品C", "abc", "50"},
		}
		items := ExtractItems([]document.Table{grid})
		require.Len(t, items, 1)
		assert.Equal(t, 1.0, items[0].Quantity)
		assert.Equal(t, 50.0, items[0].UnitPrice)
		assert.Equal(t, 50.0, items[0].Amount)
	})

	t.Run("rows without a name are skipped", func(t *testing.T) {
		grid := document.Table{
			{"品名", "金額"},
			{"", "100"},
			{"   ", "200"},
			{"商品D", "300"},
			{"商品E"}, // short row: no amount cell
		}
		items := ExtractItems([]document.Table{grid})
		require.Len(t, items, 2)
		assert.Equal(t, "商品D", items[0].Name)
		assert.Equal(t, 300.0, items[0].Amount)
		assert.Equal(t, "商品E", items[1].Name)
		assert.Equal(t, 0.0, items[1].Amount)
	})

	t.Run("grid without header contributes nothing", func(t *testing.T) {
		grids := []document.Table{
			{{"a", "b"}, {"c", "d"}},
			{{"品名", "數量"}, {"商品F", "1"}},
		}
		items := ExtractItems(grids)
		require.Len(t, items, 1)
		assert.Equal(t, "商品F", items[0].Name)
	})

	t.Run("items append across grids in order", func(t *testing.T) {
		grids := []document.Table{
			{{"品名"}, {"商品A"}},
			{{"品名"}, {"商品A"}}, // no dedup across grids
		}
		items := ExtractItems(grids)
		require.Len(t, items, 2)
	})

	t.Run("explicit zero quantity is preserved", func(t *testing.T) {
		grid := document.Table{
			{"品名", "數量", "單價"},
			{"贈品", "0", "100"},
		}
		items := ExtractItems([]document.Table{grid})
		require.Len(t, items, 1)
		assert.Equal(t, 0.0, items[0].Quantity)
		assert.Equal(t, 100.0, items[0].UnitPrice)
		assert.Equal(t, 0.0, items[0].Amount)
	})

	t.Run("negative amount clamps to zero", func(t *testing.T) {
		grid := document.Table{
			{"品名", "金額"},
			{"折讓", "-100"},
		}
		items := ExtractItems([]document.Table{grid})
		require.Len(t, items, 1)
		assert.Equal(t, 0.0, items[0].Amount)
	})

	t.Run("thousands separators in cells", func(t *testing.T) {
		grid := document.Table{
			{"品名", "數量", "單價", "金額"},
			{"大宗商品", "10", "1,000", "10,000"},
		}
		items := ExtractItems([]document.Table{grid})
		require.Len(t, items, 1)
		assert.Equal(t, 1000.0, items[0].UnitPrice)
		assert.Equal(t, 10000.0, items[0].Amount)
	})

	t.Run("single row grid is skipped", func(t *testing.T) {
		items := ExtractItems([]document.Table{{{"品名", "數量"}}})
		assert.Empty(t, items)
	})

	t.Run("no tables yields empty slice", func(t *testing.T) {
		items := ExtractItems(nil)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})
}
