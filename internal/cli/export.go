package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/trackforever/backend/internal/repository"
	"github.com/trackforever/backend/internal/service"
	"github.com/trackforever/backend/internal/snapshot"
)

// NewExportCommand creates the export command.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a YAML snapshot of the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAdmin(cmd.Context(), func(repo repository.ProjectRepository, _ service.AdminService) error {
				projects, err := service.NewLookupService(repo, opts.cfg.SyncWorkers).List(cmd.Context())
				if err != nil {
					return err
				}
				path, err := snapshot.Write(cmd.Context(), snapshot.NewLocalSink(dir), time.Now(), projects)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d project(s) to %s\n", len(projects), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "backups", "directory to write the snapshot to")
	return cmd
}
