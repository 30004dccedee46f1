package dialect

import "strings"

const indentUnit = "    "

// Print serializes a tree to canonical text: four-space indentation, one
// blank line between top-level declarations and between impl items, inline
// variant fields. Printing a freshly re-parsed print is a fixed point.
func Print(file *File) string {
	var b strings.Builder

	for i, decl := range file.Decls {
		if i > 0 {
			b.WriteByte('\n')
		}

		switch d := decl.(type) {
		case *RawDecl:
			writeLine(&b, "", d.Text)
		case *EnumDecl:
			printEnum(&b, d)
		case *ImplDecl:
			printImpl(&b, d)
		}
	}

	return b.String()
}

// writeLine emits text at the given indent, re-basing the indentation of
// continuation lines, and terminates it with a newline.
func writeLine(b *strings.Builder, indent, text string) {
	b.WriteString(indent)
	b.WriteString(reindent(text, indent))
	b.WriteByte('\n')
}

func printEnum(b *strings.Builder, enum *EnumDecl) {
	for _, attr := range enum.Attrs {
		writeLine(b, "", attr)
	}

	head := "enum " + enum.Name
	if enum.Vis != "" {
		head = enum.Vis + " " + head
	}

	if len(enum.Variants) == 0 {
		b.WriteString(head + " {}\n")
		return
	}

	b.WriteString(head + " {\n")

	for _, variant := range enum.Variants {
		for _, attr := range variant.Attrs {
			writeLine(b, indentUnit, attr)
		}

		writeLine(b, indentUnit, variantText(variant)+",")
	}

	b.WriteString("}\n")
}

func variantText(v Variant) string {
	text := v.Name

	switch {
	case len(v.Fields) > 0:
		parts := make([]string, 0, len(v.Fields))
		for _, f := range v.Fields {
			parts = append(parts, f.Name+": "+f.Type)
		}

		text += " { " + strings.Join(parts, ", ") + " }"
	case v.Tuple != "":
		text += normalizeSpace(v.Tuple)
	}

	if v.Discriminant != "" {
		text += " = " + v.Discriminant
	}

	return text
}

func printImpl(b *strings.Builder, impl *ImplDecl) {
	for _, attr := range impl.Attrs {
		writeLine(b, "", attr)
	}

	if len(impl.Items) == 0 {
		b.WriteString(impl.Header + " {}\n")
		return
	}

	b.WriteString(impl.Header + " {\n")

	for i, item := range impl.Items {
		if i > 0 {
			b.WriteByte('\n')
		}

		switch it := item.(type) {
		case *RawImplItem:
			writeLine(b, indentUnit, it.Text)
		case *FnItem:
			printFn(b, it, indentUnit)
		}
	}

	b.WriteString("}\n")
}

func printFn(b *strings.Builder, fn *FnItem, indent string) {
	for _, attr := range fn.Attrs {
		writeLine(b, indent, attr)
	}

	b.WriteString(indent + fn.Signature + " {\n")
	printStmts(b, fn.Body, indent+indentUnit)
	b.WriteString(indent + "}\n")
}

func printStmts(b *strings.Builder, stmts []Stmt, indent string) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *RawStmt:
			writeLine(b, indent, s.Text)
		case *MatchStmt:
			printMatch(b, s, indent)
		}
	}
}

func printMatch(b *strings.Builder, match *MatchStmt, indent string) {
	for _, lead := range match.Lead {
		writeLine(b, indent, lead)
	}

	b.WriteString(indent + "match " + match.Scrutinee + " {\n")

	armIndent := indent + indentUnit

	for _, arm := range match.Arms {
		for _, lead := range arm.Lead {
			writeLine(b, armIndent, lead)
		}

		line := arm.Pattern() + " => " + reindent(arm.Body, armIndent)
		if !arm.Block {
			line += ","
		}

		b.WriteString(armIndent + line + "\n")
	}

	for _, trailing := range match.Trailing {
		writeLine(b, armIndent, trailing)
	}

	b.WriteString(indent + "}")

	if match.HasSemi {
		b.WriteByte(';')
	}

	b.WriteByte('\n')
}

// reindent re-bases a multi-line text span to the given indentation. The
// first line is emitted as-is (the caller writes its indent); continuation
// lines are stripped of their common leading whitespace and prefixed with
// the indent, preserving their relative structure. Single-line text is
// returned unchanged, so re-printing printed output is a no-op.
func reindent(text, indent string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return text
	}

	common := -1

	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		width := leadingWidth(line)
		if common < 0 || width < common {
			common = width
		}
	}

	if common < 0 {
		common = 0
	}

	out := make([]string, 0, len(lines))
	out = append(out, strings.TrimRight(lines[0], " \t"))

	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			out = append(out, "")
			continue
		}

		out = append(out, indent+stripLeading(line, common))
	}

	return strings.Join(out, "\n")
}

// leadingWidth measures leading whitespace in columns, counting a tab as
// four columns.
func leadingWidth(line string) int {
	width := 0

	for _, ch := range line {
		switch ch {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width
		}
	}

	return width
}

// stripLeading removes leading whitespace up to the given column width.
func stripLeading(line string, width int) string {
	consumed := 0

	for i, ch := range line {
		if consumed >= width {
			return line[i:]
		}

		switch ch {
		case ' ':
			consumed++
		case '\t':
			consumed += 4
		default:
			return line[i:]
		}
	}

	return strings.TrimLeft(line, " \t")
}
