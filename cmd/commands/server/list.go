package server

import (
	"fmt"
	"text/tabwriter"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/tui/styles"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered servers",
		Long: `List every registered Nextcloud server.

Examples:
  servicenextcloud server list
  servicenextcloud server list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if err := cmdutil.CheckOutput(output); err != nil {
		return err
	}

	a, err := cmdutil.OpenApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	servers, err := a.Registry.List(cmdutil.Context(cmd))
	if err != nil {
		return err
	}

	if output == "json" {
		return cmdutil.PrintJSON(cmd, servers)
	}

	if len(servers) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No servers found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tURL\tSTATUS")
	fmt.Fprintln(w, "--\t----\t---\t------")
	for _, srv := range servers {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			srv.ID,
			srv.Name,
			srv.URL,
			styles.ActiveStatus(srv.Active),
		)
	}
	return w.Flush()
}
