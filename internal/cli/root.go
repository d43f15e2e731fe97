package cli

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/alexanderramin/rebound/internal/auth"
	"github.com/alexanderramin/rebound/internal/config"
	"github.com/alexanderramin/rebound/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// App holds the configuration and services shared by CLI commands.
type App struct {
	Config   config.Config
	DB       *sql.DB
	Logger   *slog.Logger
	Recovery service.RecoveryService
	Tasks    service.TaskService
	Stats    service.StatsService
	// Tokens is nil when no JWT secret is configured.
	Tokens   *auth.Tokens
	Registry *prometheus.Registry
}

// NewRootCmd creates the top-level "rebound" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "rebound",
		Short:         "Recovery planning for days that went sideways",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newServeCmd(app),
		newMigrateCmd(app),
		newTokenCmd(app),
		newPlanCmd(app),
		newStatsCmd(app),
	)
	return root
}

// now is the current time in the configured zone.
func (app *App) now() time.Time {
	loc, err := app.Config.Location()
	if err != nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}
