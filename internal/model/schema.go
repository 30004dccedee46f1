// Package model defines the data structures shared across the shard engine.
package model

// Path represents a file system path.
type Path string

// FieldSpec is one (field name, type text) pair as supplied by the caller.
// The type is kept as free text; validation happens during synthesis.
type FieldSpec struct {
	Name string
	Type string
}

// TransactionSpec describes a requested transaction-type extension.
type TransactionSpec struct {
	Name   string
	Fields []FieldSpec
}

// FieldInfo is the reporting shape of a single variant field.
type FieldInfo struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// VariantInfo is the reporting shape of one transaction type as it exists
// in the schema file.
type VariantInfo struct {
	Name   string      `yaml:"name"`
	Fields []FieldInfo `yaml:"fields,omitempty"`
}

// ExtensionResult summarizes a completed extension for display.
type ExtensionResult struct {
	Variant      VariantInfo
	Warnings     []Warning
	FilesWritten []Path
}
