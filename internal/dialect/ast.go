// Package dialect implements a structural parser and canonical printer for
// the fixed Rust subset that rollup schema files are written in. The parser
// understands enum declarations, impl blocks, functions, and match
// expressions; everything else round-trips as opaque, verbatim text so code
// the engine does not understand is never reformatted or corrupted.
package dialect

import "strings"

// File is an ordered sequence of top-level declarations parsed from one
// source file.
type File struct {
	Decls []Decl
}

// Decl is a top-level declaration.
type Decl interface {
	decl()
}

// RawDecl preserves an unrecognized top-level item verbatim.
type RawDecl struct {
	Text string
}

// EnumDecl is a tagged-union type declaration.
type EnumDecl struct {
	Attrs    []string
	Vis      string
	Name     string
	Variants []Variant
}

// ImplDecl is an impl block. Only fn items inside it are parsed
// structurally; other items stay opaque.
type ImplDecl struct {
	Attrs  []string
	Header string
	Items  []ImplItem
}

func (*RawDecl) decl()  {}
func (*EnumDecl) decl() {}
func (*ImplDecl) decl() {}

// Variant is one alternative of a tagged union: a name plus named fields.
// An empty field list is a unit variant. Tuple payloads and discriminants
// are preserved as raw text.
type Variant struct {
	Attrs        []string
	Name         string
	Fields       []Field
	Tuple        string
	Discriminant string
}

// IsUnit reports whether the variant carries no data.
func (v Variant) IsUnit() bool {
	return len(v.Fields) == 0 && v.Tuple == ""
}

// Field is a named field with its type stored as text.
type Field struct {
	Name string
	Type string
}

// ImplItem is one item inside an impl block.
type ImplItem interface {
	implItem()
}

// RawImplItem preserves an unrecognized impl item verbatim.
type RawImplItem struct {
	Text string
}

// FnItem is a function with a parsed statement body. The signature (from
// visibility through return type) is kept as normalized text.
type FnItem struct {
	Attrs     []string
	Name      string
	Signature string
	Body      []Stmt
}

func (*RawImplItem) implItem() {}
func (*FnItem) implItem()      {}

// Stmt is one statement in a function body.
type Stmt interface {
	stmt()
}

// RawStmt preserves an unrecognized statement verbatim, including any
// comments that precede it.
type RawStmt struct {
	Text string
}

// MatchStmt is a match expression appearing as a statement or as the body's
// trailing expression.
type MatchStmt struct {
	Lead      []string
	Scrutinee string
	Arms      []Arm
	Trailing  []string
	HasSemi   bool
}

func (*RawStmt) stmt()   {}
func (*MatchStmt) stmt() {}

// Arm is one (pattern, body) pair of a match expression. A structured arm
// has Qualifier/Variant/Bindings populated; an arm whose pattern does not
// fit the variant-path shape keeps RawPattern instead.
type Arm struct {
	Lead       []string
	Qualifier  []string
	Variant    string
	Bindings   []string
	RawPattern string
	Body       string
	Block      bool
}

// Structured reports whether the arm pattern names a union variant.
func (a Arm) Structured() bool {
	return a.RawPattern == ""
}

// QualifierName returns the last path segment before the variant name,
// i.e. the union type the pattern refers to.
func (a Arm) QualifierName() string {
	if len(a.Qualifier) == 0 {
		return ""
	}

	return a.Qualifier[len(a.Qualifier)-1]
}

// Pattern renders the arm pattern in canonical form.
func (a Arm) Pattern() string {
	if !a.Structured() {
		return a.RawPattern
	}

	path := strings.Join(append(append([]string{}, a.Qualifier...), a.Variant), "::")
	if a.Bindings == nil {
		return path
	}

	if len(a.Bindings) == 0 {
		return path + " {}"
	}

	return path + " { " + strings.Join(a.Bindings, ", ") + " }"
}

// HasVariant reports whether the enum declares a variant with the name.
func (e *EnumDecl) HasVariant(name string) bool {
	for _, v := range e.Variants {
		if v.Name == name {
			return true
		}
	}

	return false
}

// RemoveVariant drops every variant with the given name, preserving the
// order of the rest.
func (e *EnumDecl) RemoveVariant(name string) {
	kept := e.Variants[:0]

	for _, v := range e.Variants {
		if v.Name != name {
			kept = append(kept, v)
		}
	}

	e.Variants = kept
}

// RemoveArms drops every structured arm matching the given variant name.
func (m *MatchStmt) RemoveArms(variant string) {
	kept := m.Arms[:0]

	for _, a := range m.Arms {
		if a.Structured() && a.Variant == variant {
			continue
		}

		kept = append(kept, a)
	}

	m.Arms = kept
}

// InsertArmFront places the arm at index 0 so it is matched before every
// existing arm.
func (m *MatchStmt) InsertArmFront(arm Arm) {
	m.Arms = append([]Arm{arm}, m.Arms...)
}

// TopLevelMatch returns the single match statement of the body along with
// its statement index, or nil when the body has none or more than one.
func (f *FnItem) TopLevelMatch() (*MatchStmt, int) {
	var (
		found *MatchStmt
		index = -1
	)

	for i, s := range f.Body {
		if m, ok := s.(*MatchStmt); ok {
			if found != nil {
				return nil, -1
			}

			found = m
			index = i
		}
	}

	return found, index
}
