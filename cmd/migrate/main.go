// Command migrate manages the goose schema migrations for the Postgres
// database.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/campusfound/lostfound-backend/pkg/config"
	"github.com/campusfound/lostfound-backend/pkg/db"
	"github.com/campusfound/lostfound-backend/pkg/logger"
	"github.com/campusfound/lostfound-backend/pkg/migrate"
)

var dir string

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Apply, inspect and author goose migrations",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// offline commands never open a database connection.
var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Write a new timestamped SQL migration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := dir
		if target == migrate.DefaultDir {
			// the embedded copy is read-only; write next to it in the source tree
			target = "./" + migrate.DefaultDir
		}
		path, err := migrate.CreateSQLMigration(target, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "created migration:", path)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check migration filenames and goose markers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := migrate.ValidateDir(dir); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migration validation passed")
		return nil
	},
}

func gooseCommand(use, short string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), use, func(ctx context.Context, sqlDB *sql.DB) error {
				return migrate.Run(ctx, sqlDB, dir, use)
			})
		},
	}
}

var versionCmd = &cobra.Command{
	Use:   "version <YYYYMMDDHHMMSS>",
	Short: "Migrate up or down to the given version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDatabase(cmd.Context(), "version", func(ctx context.Context, sqlDB *sql.DB) error {
			return migrate.MigrateToVersion(ctx, sqlDB, dir, args[0])
		})
	},
}

// withDatabase loads config, opens the database and runs fn with a logger
// context describing the command.
func withDatabase(ctx context.Context, command string, fn func(context.Context, *sql.DB) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DB.IsSQLite() {
		return fmt.Errorf("goose migrations target postgres; sqlite schemas are built with LOSTFOUND_AUTO_MIGRATE")
	}

	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
		"cmd": command,
		"dir": dir,
	})

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "resource not working: database", err)
		return err
	}
	defer client.Close()

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extract sql.DB: %w", err)
	}

	logg.Info(ctx, "migrate ready")
	if err := fn(ctx, sqlDB); err != nil {
		logg.Error(ctx, "migration failed", err)
		return err
	}
	logg.Info(ctx, "migration complete")
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dir, "dir", migrate.DefaultDir, "goose migrations directory")
	rootCmd.AddCommand(
		gooseCommand("up", "Apply all pending migrations"),
		gooseCommand("down", "Roll back the latest migration"),
		gooseCommand("status", "Print applied and pending migrations"),
		versionCmd,
		createCmd,
		validateCmd,
	)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
