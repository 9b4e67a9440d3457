package render

import (
	"html"
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/unicode/norm"
)

// DescriptionLimit is the character budget for descriptions on search cards.
const DescriptionLimit = 100

const ellipsis = "..."

var (
	answerPolicy = bluemonday.UGCPolicy()
	stripPolicy  = bluemonday.StrictPolicy()
)

// Truncate cuts s to n characters and appends an ellipsis. Characters are
// counted on the NFC form so decomposed Hangul counts like typed Hangul.
// Strings that fit are returned untouched.
func Truncate(s string, n int) string {
	nfc := norm.NFC.String(s)
	if utf8.RuneCountInString(nfc) <= n {
		return s
	}
	runes := []rune(nfc)
	return string(runes[:n]) + ellipsis
}

// PlainText strips markup and decodes entities. Backend descriptions carry
// both, and the templates escape again on output.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// SafeAnswer keeps the simple formatting a chat answer may carry and turns
// line breaks into <br>.
func SafeAnswer(s string) template.HTML {
	s = strings.ReplaceAll(strings.TrimSpace(s), "\n", "<br>")
	return template.HTML(answerPolicy.Sanitize(s))
}
