package server

import (
	"noracloud/servicenextcloud/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// ShowCommand returns a cobra.Command that displays a single server.
func ShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show details for a server",
		Long: `Display a registered server. The admin password is never printed.

Examples:
  servicenextcloud server show --id 1
  servicenextcloud server show --id 1 -o json`,
		RunE:         runShow,
		SilenceUsage: true,
	}

	cmd.Flags().Int64("id", 0, "Server ID to show")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetInt64("id")
	output, _ := cmd.Flags().GetString("output")
	if err := cmdutil.CheckOutput(output); err != nil {
		return err
	}

	a, err := cmdutil.OpenApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := a.Registry.Get(cmdutil.Context(cmd), id)
	if err != nil {
		return err
	}
	return printServer(cmd, srv, output)
}
