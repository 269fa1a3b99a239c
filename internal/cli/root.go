// Package cli implements the powertracker command line: status updates,
// subscriber administration, bot diagnostics and the HTTP server.
//
// Every command shares one App. The root command's PersistentPreRunE loads
// configuration, configures logging, opens the database and builds the
// services, so subcommands only deal with their own flags and output.
package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/tbourn/power-status-tracker/internal/config"
	httpapi "github.com/tbourn/power-status-tracker/internal/http"
	"github.com/tbourn/power-status-tracker/internal/repo"
	"github.com/tbourn/power-status-tracker/internal/services"
	"github.com/tbourn/power-status-tracker/internal/sysutil"
	"github.com/tbourn/power-status-tracker/internal/telegram"
)

// App holds the dependencies of one CLI invocation.
type App struct {
	Version string

	// LogWriter receives log output; nil means stderr.
	LogWriter io.Writer

	LoadConfig func() (config.Config, error)
	OpenDB     func(cfg config.Config) (*gorm.DB, error)
	NewGateway func(cfg config.Config) services.Gateway

	cfg      config.Config
	db       *gorm.DB
	gw       services.Gateway
	status   *services.StatusService
	notifier *services.NotificationService
}

// NewApp returns an App wired to the environment configuration, the SQLite
// store and the Telegram Bot API.
func NewApp(version string) *App {
	return &App{
		Version:    version,
		LoadConfig: config.Load,
		OpenDB:     openDB,
		NewGateway: newGateway,
	}
}

// RootCommand builds the command tree.
func (a *App) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "powertracker",
		Short: "Power outage tracker with Telegram notifications",
		Long: `powertracker records whether the power is on or off and notifies Telegram
subscribers whenever the status flips.`,
		Version:       a.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}

	root.AddCommand(
		a.statusCommand(),
		a.subscribersCommand(),
		a.botCommand(),
		a.serveCommand(),
	)
	return root
}

// Close releases the database handle. It is safe to call more than once.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	a.db = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (a *App) setup() error {
	if a.db != nil {
		return nil
	}

	cfg, err := a.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	sysutil.ConfigureLogging(cfg.LogLevel, cfg.LogPretty, a.LogWriter)

	db, err := a.OpenDB(cfg)
	if err != nil {
		return err
	}

	a.cfg, a.db = cfg, db
	a.gw = a.NewGateway(cfg)
	a.status, a.notifier = httpapi.NewServices(db, a.gw, cfg)
	return nil
}

// requireBot fails fast when no bot token is configured. Subscriber and
// bot commands are useless without one.
func (a *App) requireBot() error {
	if !a.cfg.HasBotToken() {
		return fmt.Errorf("%w: set TELEGRAM_BOT_TOKEN in the environment or .env file", services.ErrBotTokenMissing)
	}
	return nil
}

func openDB(cfg config.Config) (*gorm.DB, error) {
	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %q: %w", cfg.DBPath, err)
	}
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			return nil, fmt.Errorf("failed to enable query tracing: %w", err)
		}
	}
	if err := repo.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

func newGateway(cfg config.Config) services.Gateway {
	return telegram.NewClient(cfg.Telegram.APIBase, cfg.Telegram.BotToken, cfg.Telegram.Timeout)
}
