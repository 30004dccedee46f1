package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deltadevsde/shard/internal/controller"
	"github.com/deltadevsde/shard/internal/domain"
	m "github.com/deltadevsde/shard/internal/model"
)

var createInteractiveFlag bool

// createCmd represents the create-tx command.
var createCmd = newCreateCmd()

const createLongDescription = `Add a transaction type to the project schema.

The new variant is appended to the TransactionType enum and a matching
arm is inserted at the top of every dispatch function, with a trivial
Ok(()) body for you to fill in. Fields are given as name/type pairs:

  shard create-tx SendMessage msg String user String

A field name without a type gets the configured default type.`

func newCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-tx <tx-name> [field_name field_type]...",
		Short: "Add a transaction type to the schema",
		Long:  createLongDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defaultType := viper.GetString(defaultFieldTypeKey)
			fields, warnings := domain.ParseFieldArgs(args[1:], defaultType)

			if in := cmd.InOrStdin(); createInteractiveFlag && len(fields) == 0 && controller.Interactive(in) {
				collected, err := controller.RunFieldWizard(in, cmd.OutOrStdout(), defaultType)
				if err != nil {
					return err
				}

				fields = collected
			}

			ui := controller.NewSimpleUI(cmd)

			result, err := newExtender().CreateTransaction(cmd.Context(), m.TransactionSpec{
				Name:   args[0],
				Fields: fields,
			})
			if err != nil {
				return err
			}

			result.Warnings = append(warnings, result.Warnings...)

			ui.DisplayWarnings(cmd.Context(), result.Warnings)
			ui.DisplaySummary(cmd.Context(), result)

			return nil
		},
	}

	configureCreateFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(createCmd)
}

func configureCreateFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&createInteractiveFlag, "interactive", "i", false, "collect fields interactively when none are given")
}
