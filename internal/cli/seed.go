package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trackforever/backend/internal/model"
	"github.com/trackforever/backend/internal/outcome"
	"github.com/trackforever/backend/internal/repository"
	"github.com/trackforever/backend/internal/service"
	"github.com/trackforever/backend/internal/snapshot"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file.yaml>",
		Short: "Merge projects and issues from a YAML file",
		Long: `Merge projects and issues from a YAML file through the same
reconciliation the API uses, so seeding twice is harmless. Files written
by the export command can be seeded back.

The file is a list of projects; issues are keyed by id:

  - id: testproj1
    ownerName: Will
    name: Test Project 1
    source: Google Code
    issues:
      "1":
        summary: Crash on start
        status: open`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := loadSeedFile(args[0])
			if err != nil {
				return err
			}
			return opts.withAdmin(cmd.Context(), func(_ repository.ProjectRepository, admin service.AdminService) error {
				result, err := admin.Seed(cmd.Context(), projects)
				if err != nil {
					return err
				}
				printReport(cmd, "projects", result.Projects)
				printReport(cmd, "issues", result.Issues)
				if result.Projects.Status() != outcome.StatusComplete || result.Issues.Status() != outcome.StatusComplete {
					return fmt.Errorf("seed incomplete")
				}
				return nil
			})
		},
	}
}

func loadSeedFile(path string) ([]*model.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	defer f.Close()
	projects, err := snapshot.Read(f)
	if err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return projects, nil
}

func printReport(cmd *cobra.Command, what string, r *outcome.Report) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d ok, %d failed (%s)\n",
		what, len(r.Succeeded()), len(r.Failures()), r.Status())
	for _, o := range r.Failures() {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s %s\n", o.Key, o.Reason, o.Detail)
	}
}
