package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "github.com/deltadevsde/shard/internal/model"
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplaySummary prints the created transaction type, a field table when
// fields exist, and the reminder that the accept bodies are placeholders.
func (s *SimpleUI) DisplaySummary(ctx context.Context, result m.ExtensionResult) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Created new transaction type: %s\n", result.Variant.Name)

	if len(result.Variant.Fields) > 0 {
		s.printf("Transaction fields:\n%s", renderFieldTable(result.Variant.Fields))
	}

	for _, path := range result.FilesWritten {
		s.printf("  updated %s\n", path)
	}

	s.printf("\nUpdate the verify, validate and process arms to add your custom logic!\n")
}

// DisplayWarnings prints one line per warning.
func (s *SimpleUI) DisplayWarnings(ctx context.Context, warnings []m.Warning) {
	if err := ctx.Err(); err != nil {
		return
	}

	for _, warning := range warnings {
		s.printf("warning: %s\n", warning.Message)
	}
}

// DisplaySchema renders the current transaction types as a table or as YAML.
func (s *SimpleUI) DisplaySchema(ctx context.Context, variants []m.VariantInfo, format SchemaFormat) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if format == FormatYAML {
		out, err := yaml.Marshal(variants)
		if err != nil {
			return fmt.Errorf("failed to render schema: %w", err)
		}

		s.printf("%s", out)

		return nil
	}

	s.printf("%s", renderSchemaTable(variants))

	return nil
}

func renderFieldTable(fields []m.FieldInfo) string {
	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Field", "Type"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, field := range fields {
		table.Append([]string{field.Name, field.Type})
	}

	table.Render()

	return buffer.String()
}

func renderSchemaTable(variants []m.VariantInfo) string {
	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"Transaction Type", "Fields"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, variant := range variants {
		table.Append([]string{variant.Name, fieldSummary(variant.Fields)})
	}

	table.SetFooter([]string{"Total", fmt.Sprintf("%d", len(variants))})
	table.Render()

	return buffer.String()
}

func fieldSummary(fields []m.FieldInfo) string {
	if len(fields) == 0 {
		return "-"
	}

	summary := ""

	for i, field := range fields {
		if i > 0 {
			summary += ", "
		}

		summary += field.Name + ": " + field.Type
	}

	return summary
}

func (s *SimpleUI) printf(format string, args ...any) {
	s.cmd.Printf(format, args...)
}
