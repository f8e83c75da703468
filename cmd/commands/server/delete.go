package server

import (
	"errors"
	"fmt"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/tui"

	"github.com/spf13/cobra"
)

func DeleteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a server",
		Long: `Move a server to the trash. Trashed servers disappear from list and show
and can no longer be used for activation. Use "server purge" to remove
them together with their services and product bindings.

In a terminal you are asked to confirm unless --yes is passed.

Examples:
  servicenextcloud server delete --id 1
  servicenextcloud server delete --id 1 --yes`,
		Run: runDelete,
	}

	cmd.Flags().Int64("id", 0, "Server ID to delete")
	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runDelete(cmd *cobra.Command, args []string) {
	id, _ := cmd.Flags().GetInt64("id")
	yes, _ := cmd.Flags().GetBool("yes")

	a, err := cmdutil.OpenApp(cmd)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}
	defer a.Close()

	ctx := cmdutil.Context(cmd)
	srv, err := a.Registry.Get(ctx, id)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return
	}

	if !yes && cmdutil.Interactive() {
		err := tui.Confirm(fmt.Sprintf("Delete server %q (ID: %d)?", srv.Name, srv.ID), "Yes, delete")
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Server deletion cancelled.")
				return
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
	}

	if err := a.Registry.Delete(ctx, id); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error deleting server: %v\n", err)
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Server %q (ID: %d) deleted successfully.\n", srv.Name, srv.ID)
}
