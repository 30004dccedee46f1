// Package controller provides output adapters for the shard CLI.
package controller

import (
	"context"
	"io"
	"os"

	"golang.org/x/term"

	m "github.com/deltadevsde/shard/internal/model"
)

// SchemaFormat selects how the schema listing is rendered.
type SchemaFormat string

// Available schema output formats.
const (
	FormatTable SchemaFormat = "table"
	FormatYAML  SchemaFormat = "yaml"
)

// UI defines the interface for reporting results to the user.
// Implementations can use different output methods (plain text, tables).
type UI interface {
	// DisplaySummary reports a completed extension: the new transaction
	// type, its fields, and the files that were rewritten.
	DisplaySummary(ctx context.Context, result m.ExtensionResult)

	// DisplayWarnings reports recoverable conditions such as type-text
	// fallbacks.
	DisplayWarnings(ctx context.Context, warnings []m.Warning)

	// DisplaySchema renders the current transaction types.
	DisplaySchema(ctx context.Context, variants []m.VariantInfo, format SchemaFormat) error
}

// IsTTY reports whether the file is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Interactive reports whether the reader can drive an interactive prompt: a
// file attached to a terminal, or an injected stream. Piped stdin is not
// interactive.
func Interactive(r io.Reader) bool {
	if f, ok := r.(*os.File); ok {
		return IsTTY(f)
	}

	return r != nil
}
