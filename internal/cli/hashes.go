package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/trackforever/backend/internal/repository"
	"github.com/trackforever/backend/internal/service"
)

// NewHashesCommand creates the hashes command.
func NewHashesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "hashes",
		Short: "Print the hash of every project and issue as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAdmin(cmd.Context(), func(repo repository.ProjectRepository, _ service.AdminService) error {
				hashes, err := service.NewLookupService(repo, opts.cfg.SyncWorkers).Hashes(cmd.Context())
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(hashes)
			})
		},
	}
}
