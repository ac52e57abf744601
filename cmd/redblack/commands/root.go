// Package commands implements CLI command handlers for redblack.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/redblack/pkg/version"
)

// GlobalOptions holds the persistent flags shared by every command.
type GlobalOptions struct {
	ConfigPath  string
	LogFormat   string
	OTLPHeaders string
	Verbose     bool
	Quiet       bool
	NoColor     bool
}

// NewRootCommand creates the redblack root command with all subcommands.
func NewRootCommand() *cobra.Command {
	globals := &GlobalOptions{}

	rootCmd := &cobra.Command{
		Use:   "redblack",
		Short: "Red-black tree playground",
		Long: `Redblack builds red-black trees and draws them.

Commands:
  insert    Insert values and render the tree
  demo      Insert a generated sequence and summarize the fixup work
  sort      Sort a generated sequence with heap or quick sort
  bench     Measure insert throughput
  validate  Check a JSON tree dump against the schema
  schema    Print the JSON schema of tree dumps`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globals.ConfigPath, "config", "", "config file (default: redblack.yaml in ., ./config, /etc/redblack)")
	flags.BoolVarP(&globals.Verbose, "verbose", "v", false, "verbose output")
	flags.BoolVarP(&globals.Quiet, "quiet", "q", false, "suppress output")
	flags.BoolVar(&globals.NoColor, "no-color", false, "disable colored output")
	flags.StringVar(&globals.LogFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&globals.OTLPHeaders, "otlp-headers", "", "OTLP headers as key=value,key=value")

	rootCmd.AddCommand(NewInsertCommand(globals))
	rootCmd.AddCommand(NewDemoCommand(globals))
	rootCmd.AddCommand(NewSortCommand(globals))
	rootCmd.AddCommand(NewBenchCommand(globals))
	rootCmd.AddCommand(NewValidateCommand(globals))
	rootCmd.AddCommand(NewSchemaCommand())
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "redblack %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
