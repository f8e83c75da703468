package config

import (
	"fmt"

	"noracloud/servicenextcloud/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" command group.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage servicenextcloud configuration",
		Long: "Read and write the persistent settings shared by the CLI and the admin API.\n" +
			"Run \"servicenextcloud config path\" to see where they are stored.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(GetCommand(), SetCommand(), PathCommand())
	return cmd
}

// PathCommand returns the "config path" command.
func PathCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "path",
		Short:        "Print the configuration file location",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}
