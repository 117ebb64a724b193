package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmynk/standbys/internal/config"
	"github.com/mmynk/standbys/internal/storage/migrations"
)

func newMigrateCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, dialect, err := openDB(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer db.Close()

				results, err := migrations.Up(cmd.Context(), db, dialect.Goose)
				if err != nil {
					return err
				}
				for _, r := range results {
					slog.Info("Applied migration", "version", r.Source.Version, "duration", r.Duration)
				}
				if len(results) == 0 {
					slog.Info("Schema is up to date", "driver", dialect.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, dialect, err := openDB(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer db.Close()

				result, err := migrations.Down(cmd.Context(), db, dialect.Goose)
				if err != nil {
					return err
				}
				if result == nil || result.Source == nil {
					slog.Info("Nothing to roll back", "driver", dialect.Name)
					return nil
				}
				slog.Info("Rolled back migration", "version", result.Source.Version, "duration", result.Duration)
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				db, dialect, err := openDB(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				defer db.Close()

				statuses, err := migrations.Status(cmd.Context(), db, dialect.Goose)
				if err != nil {
					return fmt.Errorf("failed to read migration status: %w", err)
				}
				for _, s := range statuses {
					applied := "pending"
					if !s.AppliedAt.IsZero() {
						applied = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
					cmd.Printf("%05d  %-8s  %s\n", s.Source.Version, s.State, applied)
				}
				return nil
			},
		},
	)
	return cmd
}
