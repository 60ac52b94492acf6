package extract

import (
	"strings"

	"github.com/einvoice-tools/extractor/internal/document"
	"github.com/einvoice-tools/extractor/internal/entity"
)

// Per-role header keyword sets. The name set doubles as the header-row
// locator: the first row containing any of its tokens is the header.
var (
	nameHeaderKeywords     = []string{"品名", "品項", "項目", "商品", "名稱"}
	quantityHeaderKeywords = []string{"數量", "數", "Qty"}
	priceHeaderKeywords    = []string{"單價", "價格", "Price"}
	amountHeaderKeywords   = []string{"金額", "小計", "Amount"}
)

// ExtractItems walks the table grids and collects line items in row
// order across all grids. Grids without a recognizable header row
// contribute nothing; no deduplication across grids.
func ExtractItems(tables []document.Table) []entity.LineItem {
	items := []entity.LineItem{}
	for _, grid := range tables {
		items = append(items, extractGrid(grid)...)
	}
	return items
}

func extractGrid(grid document.Table) []entity.LineItem {
	if len(grid) < 2 {
		return nil
	}
	headerIdx := findHeaderRow(grid)
	if headerIdx < 0 {
		return nil
	}
	header := grid[headerIdx]

	nameCol := findColumn(header, nameHeaderKeywords)
	qtyCol := findColumn(header, quantityHeaderKeywords)
	priceCol := findColumn(header, priceHeaderKeywords)
	amountCol := findColumn(header, amountHeaderKeywords)
	if nameCol < 0 {
		return nil
	}

	var items []entity.LineItem
	for _, row := range grid[headerIdx+1:] {
		if nameCol >= len(row) {
			continue
		}
		name := strings.TrimSpace(row[nameCol])
		if name == "" {
			continue
		}
		// a missing or unparseable quantity defaults to 1; an explicit
		// cell value, zero included, is kept as parsed
		qty := 1.0
		if v, ok := cellDecimal(row, qtyCol); ok {
			qty = v
		}
		price, _ := cellDecimal(row, priceCol)
		amount, _ := cellDecimal(row, amountCol)
		items = append(items, entity.NewLineItem(name, qty, price, amount))
	}
	return items
}

// findHeaderRow returns the index of the first row containing an
// item/name keyword, or -1. The header is not necessarily the first row;
// title rows may precede it.
func findHeaderRow(grid document.Table) int {
	for i, row := range grid {
		for _, cell := range row {
			if containsAny(cell, nameHeaderKeywords) {
				return i
			}
		}
	}
	return -1
}

// findColumn returns the index of the leftmost header cell matching one
// of the role keywords, or -1 when the role is absent in this grid.
func findColumn(header []string, keywords []string) int {
	for i, cell := range header {
		if containsAny(cell, keywords) {
			return i
		}
	}
	return -1
}

func containsAny(cell string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(cell, kw) {
			return true
		}
	}
	return false
}

func cellDecimal(row []string, col int) (float64, bool) {
	if col < 0 || col >= len(row) {
		return 0, false
	}
	return parseDecimal(row[col])
}
