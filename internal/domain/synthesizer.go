package domain

import (
	"fmt"
	"unicode"

	"github.com/deltadevsde/shard/internal/dialect"
	m "github.com/deltadevsde/shard/internal/model"
)

// BuildVariant constructs a union variant from the caller's ordered field
// list. Field order is preserved exactly as supplied. Type text that does
// not parse as a type reference is replaced with the default type and
// reported as a warning instead of failing the run.
func BuildVariant(name string, fields []m.FieldSpec, defaultType string) (dialect.Variant, []m.Warning) {
	variant := dialect.Variant{Name: name}

	var warnings []m.Warning

	for _, field := range fields {
		typeText := field.Type

		if !dialect.ValidTypeRef(typeText) {
			warnings = append(warnings, m.Warning{
				Code:    m.WarnTypeFallback,
				Message: fmt.Sprintf("field %s: type %q does not parse, using %s", field.Name, field.Type, defaultType),
			})
			typeText = defaultType
		}

		variant.Fields = append(variant.Fields, dialect.Field{Name: field.Name, Type: typeText})
	}

	return variant, warnings
}

// BuildArm constructs the dispatch arm for a variant. A unit variant gets a
// bare pattern; a variant with fields binds every field by name. The body
// is always the trivial accept expression; real handling logic is the
// user's job after generation.
func BuildArm(unionName string, variant dialect.Variant) dialect.Arm {
	arm := dialect.Arm{
		Qualifier: []string{unionName},
		Variant:   variant.Name,
		Body:      "Ok(())",
	}

	for _, field := range variant.Fields {
		arm.Bindings = append(arm.Bindings, field.Name)
	}

	return arm
}

// ParseFieldArgs chunks trailing CLI tokens into (name, type) pairs. A
// dangling name without a type gets the default type and a warning, so the
// caller sees the assumption instead of a silent guess.
func ParseFieldArgs(args []string, defaultType string) ([]m.FieldSpec, []m.Warning) {
	var (
		fields   []m.FieldSpec
		warnings []m.Warning
	)

	for i := 0; i < len(args); i += 2 {
		if i+1 < len(args) {
			fields = append(fields, m.FieldSpec{Name: args[i], Type: args[i+1]})
			continue
		}

		fields = append(fields, m.FieldSpec{Name: args[i], Type: defaultType})
		warnings = append(warnings, m.Warning{
			Code:    m.WarnDanglingField,
			Message: fmt.Sprintf("field %s has no type, assuming %s", args[i], defaultType),
		})
	}

	return fields, warnings
}

// ValidIdent reports whether name is a legal identifier in the target
// dialect: a letter or underscore followed by letters, digits and
// underscores.
func ValidIdent(name string) bool {
	if name == "" {
		return false
	}

	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}

		if i > 0 && unicode.IsDigit(r) {
			continue
		}

		return false
	}

	return true
}
