package server

import (
	"fmt"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

func PurgeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Permanently remove trashed servers",
		Long: `Permanently remove deleted servers. Services and product bindings that
reference them are removed as well.

Example:
  servicenextcloud server purge`,
		RunE:         runPurge,
		SilenceUsage: true,
	}

	return cmd
}

func runPurge(cmd *cobra.Command, args []string) error {
	a, err := cmdutil.OpenApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.Registry.Purge(cmdutil.Context(cmd))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d server(s).\n", n)
	return nil
}
