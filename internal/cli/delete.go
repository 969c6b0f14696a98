package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/trackforever/backend/internal/repository"
	"github.com/trackforever/backend/internal/service"
)

// NewClearAllCommand creates the clear-all command.
func NewClearAllCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear-all",
		Short: "Delete every project and issue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear the store without --yes")
			}
			return opts.withAdmin(cmd.Context(), func(_ repository.ProjectRepository, admin service.AdminService) error {
				if err := admin.DeleteAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "store cleared")
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project and its issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAdmin(cmd.Context(), func(_ repository.ProjectRepository, admin service.AdminService) error {
				if err := admin.Delete(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("delete %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

// NewDeleteByHashCommand creates the delete-by-hash command.
func NewDeleteByHashCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-by-hash <hash>",
		Short: "Delete the project whose current hash matches",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withAdmin(cmd.Context(), func(_ repository.ProjectRepository, admin service.AdminService) error {
				if err := admin.DeleteByHash(cmd.Context(), args[0]); err != nil {
					return fmt.Errorf("delete by hash: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "deleted")
				return nil
			})
		},
	}
}
