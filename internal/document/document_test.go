package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	doc := New([]string{"page one", "page two"}, nil)
	assert.Equal(t, "page one\npage two", doc.RawText)
	assert.Len(t, doc.Pages, 2)
	assert.Empty(t, doc.Tables)
}

func TestFromText(t *testing.T) {
	doc := FromText("hello")
	assert.Equal(t, []string{"hello"}, doc.Pages)
	assert.Equal(t, "hello", doc.RawText)
}

func TestBlocks(t *testing.T) {
	doc := New([]string{"a\nb\n\nc", "d"}, nil)
	assert.Equal(t, []string{"a\nb", "c", "d"}, doc.Blocks())
}

func TestEmpty(t *testing.T) {
	assert.True(t, FromText("  \n ").Empty())
	assert.False(t, FromText("x").Empty())

	withTable := New(nil, []Table{{{"品名"}, {"商品"}}})
	assert.False(t, withTable.Empty())
}

func TestDecodeText(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		doc := DecodeText([]byte("line one\r\nline two"))
		require.Len(t, doc.Pages, 1)
		assert.Equal(t, "line one\nline two", doc.Pages[0])
	})

	t.Run("form feed splits pages", func(t *testing.T) {
		doc := DecodeText([]byte("first\fsecond"))
		require.Len(t, doc.Pages, 2)
		assert.Equal(t, "first", doc.Pages[0])
		assert.Equal(t, "second", doc.Pages[1])
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"crlf", "a\r\nb", "a\nb"},
		{"tabs and runs of spaces", "a\t\tb   c", "a b c"},
		{"blank line collapse", "a\n\n\n\n\nb", "a\n\nb"},
		{"trailing spaces", "a  \nb", "a\nb"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
