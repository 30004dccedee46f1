package domain

import (
	"fmt"

	"github.com/deltadevsde/shard/internal/dialect"
	m "github.com/deltadevsde/shard/internal/model"
)

// FindEnum locates the tagged-union declaration by exact name. Search order
// follows declaration order; the first match wins.
func FindEnum(file *dialect.File, name string) (*dialect.EnumDecl, error) {
	for _, decl := range file.Decls {
		if enum, ok := decl.(*dialect.EnumDecl); ok && enum.Name == name {
			return enum, nil
		}
	}

	return nil, fmt.Errorf("enum %s: %w", name, ErrSchemaNotFound)
}

// FindDispatchFn locates the named function inside any impl block and
// verifies it dispatches over the union: its body must contain exactly one
// top-level match, and every arm pattern must name a variant of the union.
// The match may sit anywhere in the body; verification functions do
// signature checks before dispatching. A function that does not fit the
// shape is rejected rather than mutated.
func FindDispatchFn(file *dialect.File, fnName, unionName string) (*dialect.MatchStmt, error) {
	fn := findFn(file, fnName)
	if fn == nil {
		return nil, fmt.Errorf("function %s: %w", fnName, ErrSchemaNotFound)
	}

	match, _ := fn.TopLevelMatch()
	if match == nil {
		return nil, fmt.Errorf("function %s does not dispatch over %s: %w", fnName, unionName, ErrSchemaNotFound)
	}

	for _, arm := range match.Arms {
		if !arm.Structured() || arm.QualifierName() != unionName {
			return nil, fmt.Errorf("function %s has an arm outside %s: %w", fnName, unionName, ErrSchemaNotFound)
		}
	}

	return match, nil
}

func findFn(file *dialect.File, name string) *dialect.FnItem {
	for _, decl := range file.Decls {
		impl, ok := decl.(*dialect.ImplDecl)
		if !ok {
			continue
		}

		for _, item := range impl.Items {
			if fn, ok := item.(*dialect.FnItem); ok && fn.Name == name {
				return fn
			}
		}
	}

	return nil
}

// DescribeEnum maps the union's variants to their reporting shape.
func DescribeEnum(enum *dialect.EnumDecl) []m.VariantInfo {
	variants := make([]m.VariantInfo, 0, len(enum.Variants))

	for _, v := range enum.Variants {
		variants = append(variants, describeVariant(v))
	}

	return variants
}

func describeVariant(v dialect.Variant) m.VariantInfo {
	info := m.VariantInfo{Name: v.Name}

	for _, f := range v.Fields {
		info.Fields = append(info.Fields, m.FieldInfo{Name: f.Name, Type: f.Type})
	}

	return info
}
