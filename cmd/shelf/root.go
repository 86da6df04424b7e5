package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	dataPath  string
	env       string
	logLevel  string
	logFormat string
	envFile   string
	noSearch  bool
	json      bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	ctx := newCommandContext(flags)

	rootCmd := &cobra.Command{
		Use:           "shelf",
		Short:         "Manage a local audiobook and podcast library",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.dataPath, "data", "d", "", "Data directory (default ~/ListenUpShelf, env SHELF_DATA_PATH)")
	pf.StringVar(&flags.env, "env", "", "Environment: development, staging or production")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format: pretty or json")
	pf.StringVar(&flags.envFile, "env-file", "", "Path to a .env file (default .env)")
	pf.BoolVar(&flags.noSearch, "no-search", false, "Disable the search index")
	pf.BoolVar(&flags.json, "json", false, "Print results as JSON")

	rootCmd.AddCommand(newImportCommand(ctx))
	rootCmd.AddCommand(newExportCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))
	rootCmd.AddCommand(newDeleteCommand(ctx))
	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newTracksCommand(ctx))
	rootCmd.AddCommand(newChaptersCommand(ctx))
	rootCmd.AddCommand(newEpisodesCommand(ctx))
	rootCmd.AddCommand(newTrackCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newLibrariesCommand(ctx))

	return rootCmd
}
