package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRecordEmptyInvoice(t *testing.T) {
	payload, err := MarshalRecord(NewInvoice())
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(payload, &m))
	assert.Equal(t, "", m["invoice_number"])
	assert.Equal(t, 0.05, m["amounts"].(map[string]any)["tax_rate"])
	// items must be an empty array, never null
	items, ok := m["items"].([]any)
	require.True(t, ok)
	assert.Empty(t, items)
	// raw text never leaves via the canonical shape
	_, hasRaw := m["raw_text"]
	assert.False(t, hasRaw)
}

func TestMarshalRecordPopulated(t *testing.T) {
	inv := NewInvoice()
	inv.InvoiceNumber = "AB12345678"
	inv.InvoiceDate = "2024/05/20"
	inv.Seller = Party{ID: "53212539", Name: "甲公司"}
	inv.Buyer = Party{ID: "12345675", Name: "乙公司"}
	inv.Amounts.Subtotal = 1000
	inv.Amounts.TaxAmount = 50
	inv.Amounts.Total = 1050
	inv.Items = []LineItem{NewLineItem("商品A", 2, 100, 0)}
	inv.Confidence = 1.0
	inv.RawText = "source text"

	payload, err := MarshalRecord(inv)
	require.NoError(t, err)
	require.NoError(t, ValidateRecordJSON(payload))
}

func TestMarshalRecordRejectsInvalid(t *testing.T) {
	t.Run("confidence out of range", func(t *testing.T) {
		inv := NewInvoice()
		inv.Confidence = 1.5
		_, err := MarshalRecord(inv)
		assert.Error(t, err)
	})

	t.Run("malformed invoice number", func(t *testing.T) {
		inv := NewInvoice()
		inv.InvoiceNumber = "12345678AB"
		_, err := MarshalRecord(inv)
		assert.Error(t, err)
	})

	t.Run("partially parsed date", func(t *testing.T) {
		inv := NewInvoice()
		inv.InvoiceDate = "113/5/20"
		_, err := MarshalRecord(inv)
		assert.Error(t, err)
	})
}

func TestNewLineItemDerivation(t *testing.T) {
	t.Run("amount derived from quantity times price", func(t *testing.T) {
		it := NewLineItem("商品", 2, 50, 0)
		assert.Equal(t, 100.0, it.Amount)
	})

	t.Run("explicit zero quantity is a real value", func(t *testing.T) {
		it := NewLineItem("商品", 0, 50, 0)
		assert.Equal(t, 0.0, it.Quantity)
		assert.Equal(t, 0.0, it.Amount)
	})

	t.Run("explicit amount kept verbatim", func(t *testing.T) {
		it := NewLineItem("商品", 2, 100, 150)
		assert.Equal(t, 150.0, it.Amount)
	})

	t.Run("no derivation without a price", func(t *testing.T) {
		it := NewLineItem("商品", 3, 0, 0)
		assert.Equal(t, 0.0, it.Amount)
	})

	t.Run("amount never negative", func(t *testing.T) {
		it := NewLineItem("商品", 1, 0, -100)
		assert.Equal(t, 0.0, it.Amount)
	})
}
