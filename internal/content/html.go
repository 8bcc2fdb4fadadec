// Package content normalizes the HTML bodies editors submit.
package content

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.UGCPolicy()

// Sanitize strips scripts, handlers and other unsafe markup from body.
func Sanitize(body string) string {
	return strings.TrimSpace(policy.Sanitize(body))
}

// PlainText returns the visible text of an HTML fragment with whitespace collapsed.
func PlainText(body string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return cleanText(body)
	}
	doc.Find("script, style, noscript").Remove()
	return cleanText(doc.Text())
}

// Excerpt returns at most limit runes of visible text, cut on a word boundary.
func Excerpt(body string, limit int) string {
	text := PlainText(body)
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}

	cut := []rune(text)[:limit]
	if idx := lastSpace(cut); idx > limit/2 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(string(cut)) + "…"
}

// lastSpace returns the rune index of the last space in runes, or -1.
func lastSpace(runes []rune) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if runes[i] == ' ' {
			return i
		}
	}
	return -1
}

func cleanText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
