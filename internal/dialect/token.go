package dialect

// TokenKind classifies lexer output.
type TokenKind string

// Token kinds produced by the lexer.
const (
	TokEOF      TokenKind = "EOF"
	TokIdent    TokenKind = "IDENT"
	TokPunct    TokenKind = "PUNCT"
	TokOp       TokenKind = "OP"
	TokString   TokenKind = "STRING"
	TokChar     TokenKind = "CHAR"
	TokNumber   TokenKind = "NUMBER"
	TokLifetime TokenKind = "LIFETIME"
	TokComment  TokenKind = "COMMENT"
)

// Token is a single lexeme with its byte span in the source text. Spans are
// kept so the parser can slice opaque regions out of the original text
// verbatim instead of reconstructing them.
type Token struct {
	Kind  TokenKind
	Val   string
	Start int
	End   int
}

// Is reports whether the token is a punct or op with the given value.
func (t Token) Is(val string) bool {
	return (t.Kind == TokPunct || t.Kind == TokOp) && t.Val == val
}

// IsIdent reports whether the token is the given identifier or keyword.
func (t Token) IsIdent(val string) bool {
	return t.Kind == TokIdent && t.Val == val
}
