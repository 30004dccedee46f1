package dialect

import (
	"fmt"
	"strings"
)

// ParseError describes a structural parse failure with 1-based source
// coordinates.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// Parse builds a structural tree from source text. Declarations outside the
// dialect (anything that is not an enum or impl block) are preserved as
// opaque text spans.
func Parse(src string) (*File, error) {
	p := &parser{src: src, lex: NewLexer(src)}

	return p.parseFile()
}

type parser struct {
	src string
	lex *Lexer
}

func (p *parser) errf(tok Token, format string, args ...any) *ParseError {
	line, col := lineCol(p.src, tok.Start)

	return &ParseError{Line: line, Col: col, Msg: fmt.Sprintf(format, args...)}
}

func lineCol(src string, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}

	line := 1
	col := 1

	for _, ch := range src[:offset] {
		if ch == '\n' {
			line++
			col = 1
			continue
		}

		col++
	}

	return line, col
}

// normalizeSpace collapses all whitespace runs to single spaces. Used for
// headers, signatures, scrutinees and type text, which are single logical
// lines in canonical form.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (p *parser) parseFile() (*File, error) {
	file := &File{}

	for {
		trivia, triviaStart, err := p.collectTrivia()
		if err != nil {
			return nil, err
		}

		tok := p.lex.Peek()
		if tok.Kind == TokEOF {
			if len(trivia) > 0 {
				file.Decls = append(file.Decls, &RawDecl{Text: strings.Join(trivia, "\n")})
			}

			return file, nil
		}

		rawStart := tok.Start
		if triviaStart >= 0 {
			rawStart = triviaStart
		}

		vis := ""
		if tok.IsIdent("pub") {
			p.lex.Next()

			vis = "pub"
			if p.lex.Peek().Is("(") {
				inner, _, err := p.scanBalanced("(", ")")
				if err != nil {
					return nil, err
				}

				vis += normalizeSpace(inner)
			}
		}

		kw := p.lex.Peek()

		switch {
		case kw.IsIdent("enum"):
			enum, err := p.parseEnum(trivia, vis)
			if err != nil {
				return nil, err
			}

			file.Decls = append(file.Decls, enum)
		case kw.IsIdent("impl") && vis == "":
			impl, err := p.parseImpl(trivia)
			if err != nil {
				return nil, err
			}

			file.Decls = append(file.Decls, impl)
		default:
			end, err := p.finishRawItem(kw.Val)
			if err != nil {
				return nil, err
			}

			file.Decls = append(file.Decls, &RawDecl{Text: strings.TrimRight(p.src[rawStart:end], " \t")})
		}
	}
}

// collectTrivia consumes a run of comments and attributes, returning them as
// lines plus the byte offset where the run began (-1 when empty).
func (p *parser) collectTrivia() ([]string, int, error) {
	var lines []string

	start := -1

	for {
		tok := p.lex.Peek()

		switch {
		case tok.Kind == TokComment:
			p.lex.Next()

			if start < 0 {
				start = tok.Start
			}

			lines = append(lines, tok.Val)
		case tok.Is("#"):
			if start < 0 {
				start = tok.Start
			}

			attr, err := p.scanAttribute()
			if err != nil {
				return nil, 0, err
			}

			lines = append(lines, attr)
		default:
			return lines, start, nil
		}
	}
}

// scanAttribute consumes #[...] or #![...] and returns its verbatim text.
func (p *parser) scanAttribute() (string, error) {
	hash := p.lex.Next()

	if p.lex.Peek().Is("!") {
		p.lex.Next()
	}

	if !p.lex.Peek().Is("[") {
		return "", p.errf(p.lex.Peek(), "expected '[' in attribute")
	}

	_, end, err := p.scanBalanced("[", "]")
	if err != nil {
		return "", err
	}

	return p.src[hash.Start:end], nil
}

// scanBalanced consumes a bracketed region starting at the current token,
// which must be the opening bracket. It balances all bracket kinds and
// returns the verbatim text of the region plus its end offset.
func (p *parser) scanBalanced(open, close string) (string, int, error) {
	openTok := p.lex.Next()
	if !openTok.Is(open) {
		return "", 0, p.errf(openTok, "expected %q", open)
	}

	depth := 1

	for {
		tok := p.lex.Next()
		if tok.Kind == TokEOF {
			return "", 0, p.errf(openTok, "unterminated %q", open)
		}

		switch {
		case tok.Is("(") || tok.Is("[") || tok.Is("{"):
			depth++
		case tok.Is(")") || tok.Is("]") || tok.Is("}"):
			depth--
			if depth == 0 {
				if !tok.Is(close) {
					return "", 0, p.errf(tok, "expected %q, found %q", close, tok.Val)
				}

				return p.src[openTok.Start:tok.End], tok.End, nil
			}
		}
	}
}

// finishRawItem consumes the remainder of an unrecognized item. Items led by
// use/const/static/type end at a top-level semicolon even when a braced
// group appears first (use a::{b, c};); everything else also ends when a
// top-level brace block closes.
func (p *parser) finishRawItem(keyword string) (int, error) {
	semiOnly := keyword == "use" || keyword == "const" || keyword == "static" || keyword == "type"
	depth := 0

	for {
		tok := p.lex.Next()
		if tok.Kind == TokEOF {
			return 0, p.errf(tok, "unterminated item")
		}

		switch {
		case tok.Is("(") || tok.Is("[") || tok.Is("{"):
			depth++
		case tok.Is(")") || tok.Is("]"):
			depth--
		case tok.Is("}"):
			depth--
			if depth == 0 && !semiOnly {
				return tok.End, nil
			}

			if depth < 0 {
				return 0, p.errf(tok, "unbalanced '}'")
			}
		case tok.Is(";") && depth == 0:
			return tok.End, nil
		}
	}
}

func (p *parser) parseEnum(attrs []string, vis string) (*EnumDecl, error) {
	p.lex.Next() // enum

	nameTok := p.lex.Next()
	if nameTok.Kind != TokIdent {
		return nil, p.errf(nameTok, "expected enum name")
	}

	if tok := p.lex.Next(); !tok.Is("{") {
		return nil, p.errf(tok, "expected '{' after enum name")
	}

	enum := &EnumDecl{Attrs: attrs, Vis: vis, Name: nameTok.Val}

	for {
		vAttrs, _, err := p.collectTrivia()
		if err != nil {
			return nil, err
		}

		tok := p.lex.Peek()
		if tok.Is("}") {
			p.lex.Next()

			return enum, nil
		}

		if tok.Kind != TokIdent {
			return nil, p.errf(tok, "expected variant name in enum %s", enum.Name)
		}

		p.lex.Next()

		variant := Variant{Attrs: vAttrs, Name: tok.Val}

		switch {
		case p.lex.Peek().Is("{"):
			fields, err := p.parseNamedFields()
			if err != nil {
				return nil, err
			}

			variant.Fields = fields
		case p.lex.Peek().Is("("):
			raw, _, err := p.scanBalanced("(", ")")
			if err != nil {
				return nil, err
			}

			variant.Tuple = raw
		}

		if p.lex.Peek().Is("=") {
			p.lex.Next()

			disc, err := p.scanTypeText()
			if err != nil {
				return nil, err
			}

			variant.Discriminant = disc
		}

		if p.lex.Peek().Is(",") {
			p.lex.Next()
		}

		enum.Variants = append(enum.Variants, variant)
	}
}

func (p *parser) parseNamedFields() ([]Field, error) {
	p.lex.Next() // {

	var fields []Field

	for {
		tok := p.lex.Peek()
		if tok.Is("}") {
			p.lex.Next()

			return fields, nil
		}

		if tok.Kind != TokIdent {
			return nil, p.errf(tok, "expected field name")
		}

		p.lex.Next()

		if colon := p.lex.Next(); !colon.Is(":") {
			return nil, p.errf(colon, "expected ':' after field name %s", tok.Val)
		}

		typeText, err := p.scanTypeText()
		if err != nil {
			return nil, err
		}

		fields = append(fields, Field{Name: tok.Val, Type: typeText})

		if p.lex.Peek().Is(",") {
			p.lex.Next()
		}
	}
}

// scanTypeText consumes tokens up to a top-level ',' or '}' and returns the
// normalized text. Angle brackets, parens and square brackets nest.
func (p *parser) scanTypeText() (string, error) {
	depth := 0
	started := false

	var first, last Token

	for {
		tok := p.lex.Peek()
		if tok.Kind == TokEOF {
			return "", p.errf(tok, "unterminated type")
		}

		if depth == 0 && (tok.Is(",") || tok.Is("}")) {
			break
		}

		p.lex.Next()

		if !started {
			first = tok
			started = true
		}

		last = tok

		switch {
		case tok.Is("<") || tok.Is("(") || tok.Is("["):
			depth++
		case tok.Is(">") || tok.Is(")") || tok.Is("]"):
			if depth > 0 {
				depth--
			}
		}
	}

	if !started {
		return "", p.errf(p.lex.Peek(), "missing type")
	}

	return normalizeSpace(p.src[first.Start:last.End]), nil
}

func (p *parser) parseImpl(attrs []string) (*ImplDecl, error) {
	implTok := p.lex.Next() // impl

	var last Token = implTok

	for {
		tok := p.lex.Peek()
		if tok.Kind == TokEOF {
			return nil, p.errf(tok, "unterminated impl header")
		}

		if tok.Is("{") {
			break
		}

		p.lex.Next()
		last = tok
	}

	header := normalizeSpace(p.src[implTok.Start:last.End])

	p.lex.Next() // {

	impl := &ImplDecl{Attrs: attrs, Header: header}

	for {
		trivia, triviaStart, err := p.collectTrivia()
		if err != nil {
			return nil, err
		}

		tok := p.lex.Peek()
		if tok.Is("}") {
			p.lex.Next()

			if len(trivia) > 0 {
				impl.Items = append(impl.Items, &RawImplItem{Text: strings.Join(trivia, "\n")})
			}

			return impl, nil
		}

		if tok.Kind == TokEOF {
			return nil, p.errf(tok, "unterminated impl block")
		}

		rawStart := tok.Start
		if triviaStart >= 0 {
			rawStart = triviaStart
		}

		item, err := p.parseImplItem(trivia, tok, rawStart)
		if err != nil {
			return nil, err
		}

		impl.Items = append(impl.Items, item)
	}
}

// parseImplItem parses one item of an impl block: a fn (possibly behind
// visibility and modifiers) or an opaque item.
func (p *parser) parseImplItem(attrs []string, first Token, rawStart int) (ImplItem, error) {
	mark := p.lex.Mark()

	keyword := first.Val
	if first.IsIdent("pub") {
		p.lex.Next()

		if p.lex.Peek().Is("(") {
			if _, _, err := p.scanBalanced("(", ")"); err != nil {
				return nil, err
			}
		}

		keyword = p.lex.Peek().Val
	}

	for {
		tok := p.lex.Peek()
		if tok.IsIdent("const") || tok.IsIdent("async") || tok.IsIdent("unsafe") ||
			tok.IsIdent("extern") || tok.Kind == TokString {
			p.lex.Next()
			continue
		}

		break
	}

	if p.lex.Peek().IsIdent("fn") {
		return p.parseFn(attrs, first.Start)
	}

	p.lex.Reset(mark)

	end, err := p.finishRawItem(keyword)
	if err != nil {
		return nil, err
	}

	return &RawImplItem{Text: strings.TrimRight(p.src[rawStart:end], " \t")}, nil
}

func (p *parser) parseFn(attrs []string, sigStart int) (*FnItem, error) {
	p.lex.Next() // fn

	nameTok := p.lex.Next()
	if nameTok.Kind != TokIdent {
		return nil, p.errf(nameTok, "expected function name")
	}

	depth := 0
	last := nameTok

	for {
		tok := p.lex.Peek()
		if tok.Kind == TokEOF {
			return nil, p.errf(tok, "unterminated signature of fn %s", nameTok.Val)
		}

		if depth == 0 && tok.Is("{") {
			break
		}

		p.lex.Next()
		last = tok

		switch {
		case tok.Is("(") || tok.Is("["):
			depth++
		case tok.Is(")") || tok.Is("]"):
			depth--
		}
	}

	signature := normalizeSpace(p.src[sigStart:last.End])

	p.lex.Next() // {

	body, err := p.parseBlockStmts(nameTok)
	if err != nil {
		return nil, err
	}

	return &FnItem{Attrs: attrs, Name: nameTok.Val, Signature: signature, Body: body}, nil
}

func (p *parser) parseBlockStmts(fnName Token) ([]Stmt, error) {
	var stmts []Stmt

	for {
		trivia, triviaStart, err := p.collectTrivia()
		if err != nil {
			return nil, err
		}

		tok := p.lex.Peek()

		switch {
		case tok.Is("}"):
			p.lex.Next()

			if len(trivia) > 0 {
				stmts = append(stmts, &RawStmt{Text: strings.Join(trivia, "\n")})
			}

			return stmts, nil
		case tok.Kind == TokEOF:
			return nil, p.errf(tok, "unterminated body of fn %s", fnName.Val)
		case tok.IsIdent("match"):
			match, err := p.parseMatchStmt(trivia)
			if err != nil {
				return nil, err
			}

			stmts = append(stmts, match)
		default:
			start := tok.Start
			if triviaStart >= 0 {
				start = triviaStart
			}

			end, err := p.finishRawStmt()
			if err != nil {
				return nil, err
			}

			stmts = append(stmts, &RawStmt{Text: strings.TrimRight(p.src[start:end], " \t")})
		}
	}
}

// finishRawStmt consumes an opaque statement: up to a top-level ';', the
// close of a top-level block (continuing through else-chains), or the
// enclosing body's closing brace (left unconsumed).
func (p *parser) finishRawStmt() (int, error) {
	depth := 0

	var last Token

	for {
		tok := p.lex.Peek()
		if tok.Kind == TokEOF {
			return 0, p.errf(tok, "unterminated statement")
		}

		if depth == 0 && tok.Is("}") {
			return last.End, nil
		}

		p.lex.Next()
		last = tok

		switch {
		case tok.Is("(") || tok.Is("[") || tok.Is("{"):
			depth++
		case tok.Is(")") || tok.Is("]"):
			depth--
		case tok.Is("}"):
			depth--
			if depth == 0 {
				if p.lex.Peek().IsIdent("else") {
					continue
				}

				return tok.End, nil
			}
		case tok.Is(";") && depth == 0:
			return tok.End, nil
		}
	}
}

func (p *parser) parseMatchStmt(lead []string) (*MatchStmt, error) {
	matchTok := p.lex.Next() // match

	depth := 0

	var last Token

	for {
		tok := p.lex.Peek()
		if tok.Kind == TokEOF {
			return nil, p.errf(matchTok, "unterminated match scrutinee")
		}

		if depth == 0 && tok.Is("{") {
			break
		}

		p.lex.Next()
		last = tok

		switch {
		case tok.Is("(") || tok.Is("["):
			depth++
		case tok.Is(")") || tok.Is("]"):
			depth--
		}
	}

	if last.End == 0 {
		return nil, p.errf(matchTok, "match without scrutinee")
	}

	match := &MatchStmt{Lead: lead, Scrutinee: normalizeSpace(p.src[matchTok.End:last.End])}

	p.lex.Next() // {

	for {
		armLead, _, err := p.collectTrivia()
		if err != nil {
			return nil, err
		}

		tok := p.lex.Peek()
		if tok.Is("}") {
			p.lex.Next()

			match.Trailing = armLead

			break
		}

		if tok.Kind == TokEOF {
			return nil, p.errf(tok, "unterminated match expression")
		}

		arm, err := p.parseArm(armLead)
		if err != nil {
			return nil, err
		}

		match.Arms = append(match.Arms, arm)
	}

	if p.lex.Peek().Is(";") {
		p.lex.Next()

		match.HasSemi = true
	}

	return match, nil
}

func (p *parser) parseArm(lead []string) (Arm, error) {
	arm := Arm{Lead: lead}
	startTok := p.lex.Peek()
	mark := p.lex.Mark()

	segs, bindings, ok := p.tryStructuredPattern()
	if ok {
		arm.Qualifier = segs[:len(segs)-1]
		arm.Variant = segs[len(segs)-1]
		arm.Bindings = bindings
	} else {
		p.lex.Reset(mark)

		depth := 0

		var last Token

		for {
			tok := p.lex.Peek()
			if tok.Kind == TokEOF {
				return Arm{}, p.errf(startTok, "unterminated match arm pattern")
			}

			if depth == 0 && tok.Is("=>") {
				break
			}

			p.lex.Next()
			last = tok

			switch {
			case tok.Is("(") || tok.Is("[") || tok.Is("{"):
				depth++
			case tok.Is(")") || tok.Is("]") || tok.Is("}"):
				depth--
			}
		}

		if last.End == 0 {
			return Arm{}, p.errf(startTok, "empty match arm pattern")
		}

		arm.RawPattern = normalizeSpace(p.src[startTok.Start:last.End])
	}

	if tok := p.lex.Next(); !tok.Is("=>") {
		return Arm{}, p.errf(tok, "expected '=>' in match arm")
	}

	if p.lex.Peek().Is("{") {
		body, _, err := p.scanBalanced("{", "}")
		if err != nil {
			return Arm{}, err
		}

		arm.Body = body
		arm.Block = true
	} else {
		first := p.lex.Peek()
		depth := 0

		var last Token

		for {
			tok := p.lex.Peek()
			if tok.Kind == TokEOF {
				return Arm{}, p.errf(first, "unterminated match arm body")
			}

			if depth == 0 && (tok.Is(",") || tok.Is("}")) {
				break
			}

			p.lex.Next()
			last = tok

			switch {
			case tok.Is("(") || tok.Is("[") || tok.Is("{"):
				depth++
			case tok.Is(")") || tok.Is("]") || tok.Is("}"):
				depth--
			}
		}

		if last.End == 0 {
			return Arm{}, p.errf(first, "empty match arm body")
		}

		arm.Body = p.src[first.Start:last.End]
	}

	if p.lex.Peek().Is(",") {
		p.lex.Next()
	}

	return arm, nil
}

// tryStructuredPattern attempts to read a pattern of the shape
// Path::To::Variant or Path::To::Variant { a, b }. On failure the caller
// rewinds and treats the pattern as raw text.
func (p *parser) tryStructuredPattern() ([]string, []string, bool) {
	tok := p.lex.Peek()
	if tok.Kind != TokIdent {
		return nil, nil, false
	}

	segs := []string{p.lex.Next().Val}

	for p.lex.Peek().Is("::") {
		p.lex.Next()

		seg := p.lex.Next()
		if seg.Kind != TokIdent {
			return nil, nil, false
		}

		segs = append(segs, seg.Val)
	}

	if len(segs) < 2 {
		return nil, nil, false
	}

	var bindings []string

	if p.lex.Peek().Is("{") {
		p.lex.Next()

		bindings = []string{}

		for {
			next := p.lex.Next()
			if next.Is("}") {
				break
			}

			if next.Kind != TokIdent {
				return nil, nil, false
			}

			bindings = append(bindings, next.Val)

			switch {
			case p.lex.Peek().Is(","):
				p.lex.Next()
			case p.lex.Peek().Is("}"):
			default:
				return nil, nil, false
			}
		}
	}

	if !p.lex.Peek().Is("=>") {
		return nil, nil, false
	}

	return segs, bindings, true
}
