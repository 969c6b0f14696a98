package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trackforever/backend/internal/repository"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending PostgreSQL migrations",
		Long: `Apply the embedded *.up.sql migrations that are not yet recorded in
schema_migrations. Only meaningful for the postgres driver; the other
stores create their schema on open.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.cfg.StoreDriver != "postgres" {
				fmt.Fprintf(cmd.OutOrStdout(), "driver %s needs no migrations\n", opts.cfg.StoreDriver)
				return nil
			}
			pool, err := repository.NewPool(cmd.Context(), opts.cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			n, err := repository.Migrate(cmd.Context(), pool)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "all migrations already applied")
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %d migration(s)\n", n)
			}
			return nil
		},
	}
}
