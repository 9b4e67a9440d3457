package parser

import (
	"strings"
)

// Query is a search box input split into the backend's search type and text.
type Query struct {
	Type string // "", Keyword, Title, Author or Publisher
	Text string
}

var fieldTypes = map[string]string{
	"keyword":   "Keyword",
	"title":     "Title",
	"author":    "Author",
	"publisher": "Publisher",
}

// Parse reads an optional field prefix ("author:한강") and the remaining words.
// Only the first known field counts; unknown or repeated fields stay in the
// text as typed.
func Parse(input string) Query {
	l := NewLexer(input)
	var (
		q     Query
		words []string
	)

	for tok := l.NextToken(); tok.Type != TokenEOF; tok = l.NextToken() {
		switch tok.Type {
		case TokenField:
			if t, ok := fieldTypes[strings.ToLower(tok.Value)]; ok && q.Type == "" {
				q.Type = t
				continue
			}
			// glue an unknown field back to the word it prefixes
			next := l.NextToken()
			if next.Type == TokenWord && next.Start == tok.End {
				words = append(words, l.Slice(tok.Start, next.End))
				continue
			}
			words = append(words, l.Slice(tok.Start, tok.End))
			if next.Type != TokenEOF {
				words = append(words, l.Slice(next.Start, next.End))
			}
		default:
			words = append(words, tok.Value)
		}
	}

	q.Text = strings.Join(words, " ")
	return q
}
