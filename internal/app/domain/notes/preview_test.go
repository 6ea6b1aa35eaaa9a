package notes

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	t.Run("StripsMarkup", func(t *testing.T) {
		got := Preview("<h1>Dear diary</h1><p>Today was <strong>good</strong>.</p>")
		assert.Equal(t, "Dear diary Today was good.", got)
	})

	t.Run("CollapsesWhitespace", func(t *testing.T) {
		got := Preview("<p>one\n\n  two\tthree</p>")
		assert.Equal(t, "one two three", got)
	})

	t.Run("PlainTextPassesThrough", func(t *testing.T) {
		assert.Equal(t, "no markup here", Preview("no markup here"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, "", Preview(""))
		assert.Equal(t, "", Preview("<p></p>"))
	})

	t.Run("CapsLongContent", func(t *testing.T) {
		long := "<p>" + strings.Repeat("word ", 100) + "</p>"
		got := Preview(long)
		assert.True(t, strings.HasSuffix(got, "…"))
		assert.LessOrEqual(t, utf8.RuneCountInString(got), previewMaxRunes+1)
	})

	t.Run("ShortContentNotTruncated", func(t *testing.T) {
		got := Preview("<p>" + strings.Repeat("é", previewMaxRunes) + "</p>")
		assert.Equal(t, previewMaxRunes, utf8.RuneCountInString(got))
		assert.False(t, strings.HasSuffix(got, "…"))
	})
}
