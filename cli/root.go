package cli

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/goto/salt/cmdx"
	"github.com/spf13/cobra"
)

var envHelp = map[string]string{
	"short": "List of supported environment variables",
	"long": heredoc.Doc(`
			Every configuration key can be set through the environment.
			Keys are upper cased, prefixed with FINDER_ and nested keys
			are joined with an underscore.

			FINDER_LOG_LEVEL: debug, info, warn or error.

			FINDER_SEARCH_BACKEND: elasticsearch or postgres.

			FINDER_SEARCH_SCOPE: scope used when --scope is not given.

			FINDER_ELASTICSEARCH_BROKERS: comma separated elasticsearch urls.

			FINDER_DB_HOST, FINDER_DB_PORT, FINDER_DB_NAME, FINDER_DB_USER,
			FINDER_DB_PASSWORD: postgres connection.
		`),
}

func New(cfg *Config) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "finder <command> <subcommand> [flags]",
		Short:         "Multi-object search",
		Long:          "Search records of several object types with a single query.",
		SilenceErrors: true,
		SilenceUsage:  true,
		Example: heredoc.Doc(`
		$ finder search acme --object Account --object Contact
		$ finder describe Account
		$ finder config list
		`),
		Annotations: map[string]string{
			"group": "core",
			"help:learn": heredoc.Doc(`
				Use 'finder <command> --help' for info about a command.
			`),
		},
	}

	rootCmd.AddCommand(
		searchCommand(cfg),
		describeCommand(cfg),
		orgCommand(cfg),
		configCommand(cfg),
		versionCmd(),
	)

	// Help topics
	rootCmd.AddCommand(cmdx.SetCompletionCmd("finder"))
	rootCmd.AddCommand(cmdx.SetRefCmd(rootCmd))
	rootCmd.AddCommand(cmdx.SetHelpTopicCmd("environment", envHelp))
	cmdx.SetHelp(rootCmd)

	rootCmd.PersistentFlags().StringP(configFlag, "c", "", "Override config file")

	return rootCmd
}
