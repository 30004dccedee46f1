package dialect

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// multiOps are multi-character operators the lexer recognizes. Shift
// operators are deliberately absent so that nested generics like
// Vec<Vec<u8>> lex as individual angle brackets.
var multiOps = []string{
	"::", "=>", "->", "..=", "..", "==", "!=", "<=", ">=", "&&", "||",
	"+=", "-=", "*=", "/=", "%=", "^=", "|=", "&=",
}

// Lexer turns source text into a token stream. Comments are emitted as
// tokens rather than skipped; the parser decides whether they are trivia.
type Lexer struct {
	text   string
	pos    int
	buffer *Token
}

// NewLexer constructs a Lexer over the given source text.
func NewLexer(text string) *Lexer {
	return &Lexer{text: text}
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	if l.buffer == nil {
		tok := l.scan()
		l.buffer = &tok
	}

	return *l.buffer
}

// Next consumes and returns the next token.
func (l *Lexer) Next() Token {
	if l.buffer != nil {
		tok := *l.buffer
		l.buffer = nil

		return tok
	}

	return l.scan()
}

// lexerMark captures lexer state for backtracking.
type lexerMark struct {
	pos    int
	buffer *Token
}

// Mark snapshots the current lexer position.
func (l *Lexer) Mark() lexerMark {
	return lexerMark{pos: l.pos, buffer: l.buffer}
}

// Reset rewinds the lexer to a previously captured mark.
func (l *Lexer) Reset(m lexerMark) {
	l.pos = m.pos
	l.buffer = m.buffer
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.text) {
		ch := l.text[l.pos]
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			l.pos++
			continue
		}

		break
	}
}

func (l *Lexer) scan() Token {
	l.skipWhitespace()

	if l.pos >= len(l.text) {
		return Token{Kind: TokEOF, Start: l.pos, End: l.pos}
	}

	start := l.pos
	ch := l.text[l.pos]

	switch {
	case strings.HasPrefix(l.text[l.pos:], "//"):
		return l.scanLineComment(start)
	case strings.HasPrefix(l.text[l.pos:], "/*"):
		return l.scanBlockComment(start)
	case ch == '"':
		return l.scanString(start)
	case ch == 'r' && l.rawStringFollows():
		return l.scanRawString(start)
	case ch == '\'':
		return l.scanCharOrLifetime(start)
	case isIdentStart(rune(ch)):
		return l.scanIdent(start)
	case ch >= '0' && ch <= '9':
		return l.scanNumber(start)
	}

	for _, op := range multiOps {
		if strings.HasPrefix(l.text[l.pos:], op) {
			l.pos += len(op)

			return Token{Kind: TokOp, Val: op, Start: start, End: l.pos}
		}
	}

	l.pos++

	return Token{Kind: TokPunct, Val: string(ch), Start: start, End: l.pos}
}

func (l *Lexer) scanLineComment(start int) Token {
	for l.pos < len(l.text) && l.text[l.pos] != '\n' {
		l.pos++
	}

	return Token{Kind: TokComment, Val: l.text[start:l.pos], Start: start, End: l.pos}
}

func (l *Lexer) scanBlockComment(start int) Token {
	l.pos += 2
	for l.pos < len(l.text) && !strings.HasPrefix(l.text[l.pos:], "*/") {
		l.pos++
	}

	if l.pos < len(l.text) {
		l.pos += 2
	}

	return Token{Kind: TokComment, Val: l.text[start:l.pos], Start: start, End: l.pos}
}

func (l *Lexer) scanString(start int) Token {
	l.pos++ // opening quote
	for l.pos < len(l.text) {
		ch := l.text[l.pos]
		if ch == '\\' {
			l.pos += 2
			continue
		}

		l.pos++

		if ch == '"' {
			break
		}
	}

	return Token{Kind: TokString, Val: l.text[start:l.pos], Start: start, End: l.pos}
}

// rawStringFollows reports whether the current 'r' starts a raw string
// literal (r"..." or r#"..."#) rather than an identifier.
func (l *Lexer) rawStringFollows() bool {
	rest := l.text[l.pos+1:]
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '#':
			continue
		case '"':
			return true
		default:
			return false
		}
	}

	return false
}

func (l *Lexer) scanRawString(start int) Token {
	l.pos++ // 'r'
	hashes := 0

	for l.pos < len(l.text) && l.text[l.pos] == '#' {
		hashes++
		l.pos++
	}

	l.pos++ // opening quote
	closer := `"` + strings.Repeat("#", hashes)

	for l.pos < len(l.text) && !strings.HasPrefix(l.text[l.pos:], closer) {
		l.pos++
	}

	if l.pos < len(l.text) {
		l.pos += len(closer)
	}

	return Token{Kind: TokString, Val: l.text[start:l.pos], Start: start, End: l.pos}
}

// scanCharOrLifetime disambiguates 'a (lifetime) from 'a' (char literal).
func (l *Lexer) scanCharOrLifetime(start int) Token {
	rest := l.text[l.pos+1:]

	r, size := utf8.DecodeRuneInString(rest)
	if isIdentStart(r) && (len(rest) <= size || rest[size] != '\'') {
		l.pos++
		for l.pos < len(l.text) && isIdentPart(rune(l.text[l.pos])) {
			l.pos++
		}

		return Token{Kind: TokLifetime, Val: l.text[start:l.pos], Start: start, End: l.pos}
	}

	l.pos++ // opening quote
	for l.pos < len(l.text) {
		ch := l.text[l.pos]
		if ch == '\\' {
			l.pos += 2
			continue
		}

		l.pos++

		if ch == '\'' {
			break
		}
	}

	return Token{Kind: TokChar, Val: l.text[start:l.pos], Start: start, End: l.pos}
}

func (l *Lexer) scanIdent(start int) Token {
	for l.pos < len(l.text) && isIdentPart(rune(l.text[l.pos])) {
		l.pos++
	}

	return Token{Kind: TokIdent, Val: l.text[start:l.pos], Start: start, End: l.pos}
}

func (l *Lexer) scanNumber(start int) Token {
	for l.pos < len(l.text) {
		ch := l.text[l.pos]
		if ch >= '0' && ch <= '9' || ch == '_' || isIdentPart(rune(ch)) {
			l.pos++
			continue
		}

		// A single dot followed by a digit stays part of the number; a
		// second dot is a range operator and ends it.
		if ch == '.' && l.pos+1 < len(l.text) && l.text[l.pos+1] >= '0' && l.text[l.pos+1] <= '9' &&
			!strings.Contains(l.text[start:l.pos], ".") {
			l.pos++
			continue
		}

		break
	}

	return Token{Kind: TokNumber, Val: l.text[start:l.pos], Start: start, End: l.pos}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
