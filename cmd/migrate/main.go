package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"

	"github.com/foreteller/foreteller/config"
	"github.com/foreteller/foreteller/reportlog"
)

var databaseURL string

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the report log schema",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
		err := m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Fprintln(cmd.OutOrStdout(), "No migrations to run (database is up to date)")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
		return nil
	}),
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back migrations: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Rollback completed successfully")
		return nil
	}),
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	Args:  cobra.NoArgs,
	RunE: withMigrator(func(cmd *cobra.Command, m *migrate.Migrate, _ []string) error {
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Fprintln(cmd.OutOrStdout(), "No migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get version: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Current version: %d (dirty: %v)\n", version, dirty)
		return nil
	}),
}

var forceCmd = &cobra.Command{
	Use:   "force <version>",
	Short: "Set the schema version without running migrations",
	Args:  cobra.ExactArgs(1),
	RunE: withMigrator(func(cmd *cobra.Command, m *migrate.Migrate, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version number %q: %w", args[0], err)
		}
		if err := m.Force(version); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Forced version to %d\n", version)
		return nil
	}),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&databaseURL, "database", "", "Database URL (defaults to DATABASE_URL)")
	rootCmd.AddCommand(upCmd, downCmd, versionCmd, forceCmd)
}

// withMigrator resolves the database URL and opens a migrator over the
// embedded report log migrations for the duration of fn.
func withMigrator(fn func(*cobra.Command, *migrate.Migrate, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		url := databaseURL
		if url == "" {
			cfg, err := config.Load(".env")
			if err != nil {
				return err
			}
			url = cfg.DatabaseURL
		}
		if url == "" {
			return errors.New("database URL is required, use --database or DATABASE_URL")
		}

		m, err := reportlog.NewMigrator(url)
		if err != nil {
			return err
		}
		defer m.Close()

		return fn(cmd, m, args)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
