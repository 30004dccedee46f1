package adapter

import (
	"context"
	"fmt"

	"github.com/deltadevsde/shard/internal/dialect"
	m "github.com/deltadevsde/shard/internal/model"
)

// SchemaFileAdapter encapsulates dialect-specific parsing and printing so
// the domain layer can focus on schema transformation rules while
// delegating source-text details to an infrastructure component.
type SchemaFileAdapter interface {
	// Parse builds a structural tree from the contents of a schema file.
	Parse(ctx context.Context, path m.Path, src []byte) (*dialect.File, error)

	// Print serializes a tree back to canonical source text.
	Print(ctx context.Context, file *dialect.File) string
}

// LocalSchemaFileAdapter provides a concrete SchemaFileAdapter backed by the
// dialect package.
type LocalSchemaFileAdapter struct{}

// NewLocalSchemaFileAdapter constructs a LocalSchemaFileAdapter.
func NewLocalSchemaFileAdapter() *LocalSchemaFileAdapter {
	return &LocalSchemaFileAdapter{}
}

// Parse builds a tree for the provided path/source pair. Parse failures are
// wrapped with the file path so the caller can tell the two schema files
// apart.
func (a *LocalSchemaFileAdapter) Parse(ctx context.Context, path m.Path, src []byte) (*dialect.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := dialect.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return file, nil
}

// Print serializes the tree to canonical text.
func (a *LocalSchemaFileAdapter) Print(ctx context.Context, file *dialect.File) string {
	if err := ctx.Err(); err != nil {
		return ""
	}

	return dialect.Print(file)
}
