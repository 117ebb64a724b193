package main

import (
	"fmt"
	"log/slog"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/mmynk/standbys/internal/config"
	"github.com/mmynk/standbys/internal/roster"
)

func newRosterCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Manage the stored roster",
	}
	cfg.RosterFlags(cmd.PersistentFlags())

	var from, to string
	seed := &cobra.Command{
		Use:   "seed",
		Short: "Write the rotation into the roster table for a date range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			start, err := civil.ParseDate(from)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			end, err := civil.ParseDate(to)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}
			rotation, err := cfg.Rotation()
			if err != nil {
				return err
			}

			store, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := roster.Seed(cmd.Context(), store, rotation, start, end)
			if err != nil {
				return err
			}
			slog.Info("Roster seeded", "from", start, "to", end, "days", n)
			return nil
		},
	}
	seed.Flags().StringVar(&from, "from", "", "First date to seed (YYYY-MM-DD)")
	seed.Flags().StringVar(&to, "to", "", "Last date to seed (YYYY-MM-DD)")
	_ = seed.MarkFlagRequired("from")
	_ = seed.MarkFlagRequired("to")

	cmd.AddCommand(seed)
	return cmd
}
