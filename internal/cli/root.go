// Package cli implements the trackforever-admin command line.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/trackforever/backend/internal/config"
	"github.com/trackforever/backend/internal/logging"
	"github.com/trackforever/backend/internal/repository"
	"github.com/trackforever/backend/internal/service"
)

// RootOptions holds global flags and the configuration shared by all commands.
type RootOptions struct {
	Driver   string
	LogLevel string
	EnvFile  string

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand creates the root command for the admin CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "trackforever-admin",
		Short: "Administer a TrackForever store",
		Long: `Administer a TrackForever store directly, without going through the HTTP API.

The store is selected the same way the server selects it (STORE_DRIVER,
DATABASE_URL, SQLITE_PATH, BADGER_PATH, optionally from a .env file).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if opts.EnvFile != "" {
				files = append(files, opts.EnvFile)
			}
			cfg, err := config.Load(files...)
			if err != nil {
				return err
			}
			if opts.Driver != "" {
				cfg.StoreDriver = opts.Driver
			}
			if opts.LogLevel != "" {
				cfg.LogLevel = opts.LogLevel
			}
			opts.cfg = cfg
			opts.logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
			slog.SetDefault(opts.logger)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "store driver (memory|postgres|sqlite|badger), overrides STORE_DRIVER")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level, overrides LOG_LEVEL")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "env file to load instead of .env")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewClearAllCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewDeleteByHashCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewHashesCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}

// openStore opens the configured store. The caller closes it.
func (o *RootOptions) openStore(ctx context.Context) (repository.ProjectRepository, error) {
	repo, err := repository.Open(ctx, repository.Options{
		Driver:      o.cfg.StoreDriver,
		DatabaseURL: o.cfg.DatabaseURL,
		SQLitePath:  o.cfg.SQLitePath,
		BadgerPath:  o.cfg.BadgerPath,
		Logger:      o.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", o.cfg.StoreDriver, err)
	}
	return repo, nil
}

// withAdmin opens the store, runs fn with an AdminService over it and closes the store.
func (o *RootOptions) withAdmin(ctx context.Context, fn func(repository.ProjectRepository, service.AdminService) error) error {
	repo, err := o.openStore(ctx)
	if err != nil {
		return err
	}
	defer repo.Close()
	admin := service.NewAdminService(repo, service.NewSyncService(repo, o.cfg.SyncWorkers))
	return fn(repo, admin)
}
