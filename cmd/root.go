// Package cmd provides the root command and CLI setup for shard.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/deltadevsde/shard/internal/adapter"
	"github.com/deltadevsde/shard/internal/domain"
	m "github.com/deltadevsde/shard/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var schemaAdapter adapter.SchemaFileAdapter

// projectDirFlag is a root-level flag pointing at the rollup project to
// operate on.
var projectDirFlag string

// verboseFlag raises the log level to Debug when set.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	schemaAdapter = adapter.NewLocalSchemaFileAdapter()
}

const rootLongDescription = `Shard extends a rollup project's transaction schema. It adds a new
variant to the TransactionType enum and keeps every dispatch site
(verify, validate_tx, process_tx) exhaustive, without touching code you
have already written.

The project layout is created by the project initializer; shard only
rewrites src/tx.rs and src/state.rs.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shard",
		Short: "Rollup transaction schema tool",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", verboseFlag || viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&projectDirFlag, projectFlagName, "p",
			viper.GetString(projectFlagName),
			"path to the rollup project directory",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(projectFlagName), projectFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup("verbose"), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// extenderConfig assembles the schema contract from config/flags.
func extenderConfig() domain.Config {
	return domain.Config{
		ProjectDir:       m.Path(viper.GetString(projectFlagName)),
		TxFile:           m.Path(viper.GetString(txFileKey)),
		StateFile:        m.Path(viper.GetString(stateFileKey)),
		UnionName:        viper.GetString(unionNameKey),
		Placeholder:      viper.GetString(placeholderKey),
		DefaultFieldType: viper.GetString(defaultFieldTypeKey),
		VerifyFn:         viper.GetString(verifyFnKey),
		ValidateFn:       viper.GetString(validateFnKey),
		ProcessFn:        viper.GetString(processFnKey),
	}
}

func newExtender() domain.Extender {
	return domain.NewExtender(fsAdapter, schemaAdapter, extenderConfig())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
