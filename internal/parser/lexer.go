package parser

import (
	"unicode"
)

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWord
	TokenField
)

// Token is one lexeme; Start and End are rune offsets into the input.
type Token struct {
	Type  TokenType
	Value string
	Start int
	End   int
}

type Lexer struct {
	input []rune
	pos   int
}

func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

func (l *Lexer) NextToken() Token {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Start: l.pos, End: l.pos}
	}

	// read up to whitespace or up to a colon that ends a field name
	start := l.pos
	for l.pos < len(l.input) && !unicode.IsSpace(l.input[l.pos]) {
		if l.input[l.pos] == ':' && l.pos > start {
			name := string(l.input[start:l.pos])
			l.pos++
			return Token{Type: TokenField, Value: name, Start: start, End: l.pos}
		}
		l.pos++
	}

	return Token{Type: TokenWord, Value: string(l.input[start:l.pos]), Start: start, End: l.pos}
}

// Slice returns the raw input between two rune offsets.
func (l *Lexer) Slice(start, end int) string {
	return string(l.input[start:end])
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}
