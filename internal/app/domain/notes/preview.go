package notes

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const previewMaxRunes = 160

// Preview reduces a note's rich HTML content to a short plain-text
// excerpt for list payloads. Whitespace runs collapse to single
// spaces; the excerpt is capped at previewMaxRunes with an ellipsis.
func Preview(htmlContent string) string {
	text := htmlContent
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err == nil {
		text = doc.Text()
	}

	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= previewMaxRunes {
		return text
	}
	return strings.TrimRight(string(runes[:previewMaxRunes]), " ") + "…"
}
