package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/einvoice-tools/extractor/constants"
)

func TestChecklist(t *testing.T) {
	withoutTables := Checklist(false)
	assert.Len(t, withoutTables, 7)
	assert.NotContains(t, withoutTables, constants.FieldItems)

	withTables := Checklist(true)
	assert.Len(t, withTables, 8)
	assert.Equal(t, constants.FieldItems, withTables[len(withTables)-1])

	// table presence only ever appends; the base fields are unchanged
	assert.Equal(t, withoutTables, withTables[:7])
}

func TestScore(t *testing.T) {
	t.Run("empty checklist", func(t *testing.T) {
		assert.Equal(t, 0.0, Score(nil))
	})

	t.Run("all populated", func(t *testing.T) {
		checks := []FieldCheck{{Field: "a", Populated: true}, {Field: "b", Populated: true}}
		assert.Equal(t, 1.0, Score(checks))
	})

	t.Run("partial", func(t *testing.T) {
		checks := []FieldCheck{
			{Field: "a", Populated: true},
			{Field: "b", Populated: false},
			{Field: "c", Populated: true},
			{Field: "d", Populated: false},
		}
		assert.Equal(t, 0.5, Score(checks))
	})

	t.Run("always within unit interval", func(t *testing.T) {
		var checks []FieldCheck
		for i := 0; i < 20; i++ {
			checks = append(checks, FieldCheck{Field: "f", Populated: i%3 == 0})
			s := Score(checks)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 1.0)
		}
	})
}
