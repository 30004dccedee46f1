package dialect

// ValidTypeRef reports whether text parses as a type reference: a possibly
// generic path (Vec<String>, state::Board), a reference (&str, &'a mut T),
// a slice or array ([u8], [u8; 9]), or a tuple ((), (u8, String)). Used to
// vet caller-supplied type text before it lands in a schema file.
func ValidTypeRef(text string) bool {
	lex := NewLexer(text)
	if !parseTypeRef(lex) {
		return false
	}

	return lex.Next().Kind == TokEOF
}

func parseTypeRef(lex *Lexer) bool {
	tok := lex.Peek()

	switch {
	case tok.Is("&"):
		lex.Next()

		if lex.Peek().Kind == TokLifetime {
			lex.Next()
		}

		if lex.Peek().IsIdent("mut") {
			lex.Next()
		}

		return parseTypeRef(lex)
	case tok.Is("("):
		return parseTupleType(lex)
	case tok.Is("["):
		return parseSliceType(lex)
	case tok.Kind == TokIdent:
		return parsePathType(lex)
	}

	return false
}

func parseTupleType(lex *Lexer) bool {
	lex.Next() // (

	if lex.Peek().Is(")") {
		lex.Next()

		return true
	}

	for {
		if !parseTypeRef(lex) {
			return false
		}

		if lex.Peek().Is(",") {
			lex.Next()

			if lex.Peek().Is(")") {
				break
			}

			continue
		}

		break
	}

	if !lex.Peek().Is(")") {
		return false
	}

	lex.Next()

	return true
}

func parseSliceType(lex *Lexer) bool {
	lex.Next() // [

	if !parseTypeRef(lex) {
		return false
	}

	if lex.Peek().Is(";") {
		lex.Next()

		length := lex.Next()
		if length.Kind != TokNumber && length.Kind != TokIdent {
			return false
		}
	}

	if !lex.Peek().Is("]") {
		return false
	}

	lex.Next()

	return true
}

func parsePathType(lex *Lexer) bool {
	first := lex.Next()
	if first.IsIdent("dyn") || first.IsIdent("impl") {
		return parseTypeRef(lex)
	}

	for lex.Peek().Is("::") {
		lex.Next()

		if lex.Next().Kind != TokIdent {
			return false
		}
	}

	if lex.Peek().Is("<") {
		lex.Next()

		for {
			if lex.Peek().Kind == TokLifetime {
				lex.Next()
			} else if !parseTypeRef(lex) {
				return false
			}

			if lex.Peek().Is(",") {
				lex.Next()
				continue
			}

			break
		}

		if !lex.Peek().Is(">") {
			return false
		}

		lex.Next()
	}

	return true
}
