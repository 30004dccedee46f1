package model

// WarningCode identifies the category of a recoverable condition.
type WarningCode string

const (
	// WarnTypeFallback is reported when a caller-supplied type reference did
	// not parse and the configured default type was substituted.
	WarnTypeFallback WarningCode = "type-fallback"

	// WarnDanglingField is reported when the caller supplied a field name
	// without a type and the default type was assumed.
	WarnDanglingField WarningCode = "dangling-field"
)

// Warning is a recoverable condition surfaced to the user alongside a
// successful transformation. Warnings never abort the run.
type Warning struct {
	Code    WarningCode
	Message string
}
