// Command lostfoundctl runs maintenance tasks against the lost-and-found
// database: seeding, notification resends, redemption desk actions and staff
// account management.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/campusfound/lostfound-backend/internal/app"
	"github.com/campusfound/lostfound-backend/pkg/config"
	"github.com/campusfound/lostfound-backend/pkg/db"
	"github.com/campusfound/lostfound-backend/pkg/logger"
)

// runtime holds the resources opened by the root command for its children.
type runtime struct {
	cfg      *config.Config
	logg     *logger.Logger
	client   *db.Client
	services *app.Services
}

var env runtime

var rootCmd = &cobra.Command{
	Use:           "lostfoundctl",
	Short:         "Maintenance commands for the campus lost-and-found backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logg := logger.New(logger.Options{
			ServiceName: "lostfoundctl",
			Level:       logger.ParseLevel(cfg.App.LogLevel),
			Format:      cfg.App.LogFormat,
			WarnStack:   cfg.App.LogWarnStack,
			Output:      os.Stderr,
		})

		client, err := db.New(cmd.Context(), cfg.DB, logg)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		services, err := app.Build(cfg, logg, client, nil)
		if err != nil {
			_ = client.Close()
			return fmt.Errorf("build services: %w", err)
		}
		env = runtime{cfg: cfg, logg: logg, client: client, services: services}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if env.client == nil {
			return nil
		}
		return env.client.Close()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd, notificationsCmd, redemptionsCmd, usersCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
