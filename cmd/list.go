package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deltadevsde/shard/internal/controller"
)

var listFormatFlag string

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the transaction types declared in the schema",
		Long: `Parse the schema file and list the transaction types it declares,
with their fields. Use --format yaml for machine-readable output.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := controller.SchemaFormat(listFormatFlag)
			if format != controller.FormatTable && format != controller.FormatYAML {
				return fmt.Errorf("unsupported format %q", listFormatFlag)
			}

			variants, err := newExtender().Inspect(cmd.Context())
			if err != nil {
				return err
			}

			return controller.NewSimpleUI(cmd).DisplaySchema(cmd.Context(), variants, format)
		},
	}

	cmd.Flags().StringVarP(&listFormatFlag, formatFlagName, "f", string(controller.FormatTable), "output format: table or yaml")

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
