package main

import (
	"github.com/spf13/cobra"

	"github.com/mmynk/standbys/internal/config"
	"github.com/mmynk/standbys/pkg/logging"
)

func newRootCommand(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "standbyd",
		Short:         "Standby shift ledger server",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := logging.Configure(cfg.LogFormat, cfg.LogLevel)
			return err
		},
	}
	cfg.DatabaseFlags(root.PersistentFlags())

	root.AddCommand(
		newServeCommand(cfg),
		newMigrateCommand(cfg),
		newRosterCommand(cfg),
		&cobra.Command{
			Use:   "version",
			Short: "Print the version of standbyd",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				cmd.Println(version)
			},
		},
	)
	return root
}
