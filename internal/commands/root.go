package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/buildinfo"
	"github.com/fintrack-dev/fintrack/internal/config"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "fintrack",
		Short:   "Personal income and expense ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.dir, "dir", ".", "directory holding "+config.FileName)
	flags.StringVar(&opts.user, "user", "", "username (default $"+EnvUser+")")
	flags.StringVar(&opts.password, "password", "", "password (default $"+EnvPassword+")")

	rootCmd.AddCommand(
		newInitCommand(),
		newRegisterCommand(opts),
		newAddCommand(opts),
		newSummaryCommand(opts),
		newBreakdownCommand(opts),
		newMonthCommand(opts),
		newHistoryCommand(opts),
		newCategoriesCommand(),
		newImportCommand(opts),
	)

	return rootCmd
}
