// Package domain contains the core schema-extension workflow and logic.
package domain

import "errors"

// Sentinel errors of the extension workflow. Callers match them with
// errors.Is; every one of them aborts before any file is written.
var (
	// ErrSchemaNotFound reports that the union type or a dispatch function
	// is absent or does not have the expected shape.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrDuplicateVariant reports that the requested transaction type
	// already exists in the union.
	ErrDuplicateVariant = errors.New("transaction type already exists")

	// ErrInvalidName reports that the requested transaction type name is
	// not a legal identifier.
	ErrInvalidName = errors.New("invalid transaction type name")
)
