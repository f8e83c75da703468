package server

import "github.com/spf13/cobra"

// NewCommand returns the "server" command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "server",
		Aliases: []string{"servers", "srv"},
		Short:   "Manage registered Nextcloud servers",
		Long: `Register, inspect, update, test and remove the Nextcloud servers that
services are provisioned on. Deleted servers stay in the trash until purged.`,
	}

	cmd.AddCommand(
		ListCommand(),
		ShowCommand(),
		CreateCommand(),
		UpdateCommand(),
		DeleteCommand(),
		PurgeCommand(),
		TestCommand(),
	)

	return cmd
}
