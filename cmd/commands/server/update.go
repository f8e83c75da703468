package server

import (
	"encoding/json"
	"fmt"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/domain"

	"github.com/spf13/cobra"
)

func UpdateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a registered server",
		Long: `Update a registered server. Only the flags you pass are changed.

Examples:
  servicenextcloud server update --id 1 --name fra1-old
  servicenextcloud server update --id 1 --active=false
  servicenextcloud server update --id 1 --password new-secret`,
		RunE:         runUpdate,
		SilenceUsage: true,
	}

	cmd.Flags().Int64("id", 0, "Server ID to update")
	cmd.Flags().String("name", "", "New display name")
	cmd.Flags().String("url", "", "New base URL")
	cmd.Flags().String("username", "", "New admin username")
	cmd.Flags().String("password", "", "New admin password")
	cmd.Flags().String("config", "", "Replacement configuration as a JSON object")
	cmd.Flags().Bool("active", true, "Whether new services may be activated on the server")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetInt64("id")
	output, _ := cmd.Flags().GetString("output")
	if err := cmdutil.CheckOutput(output); err != nil {
		return err
	}

	opts := updateOpts(cmd)
	if opts.IsEmpty() {
		return fmt.Errorf("nothing to update: pass at least one of --name, --url, --username, --password, --config, --active")
	}

	a, err := cmdutil.OpenApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := a.Registry.Update(cmdutil.Context(cmd), id, opts)
	if err != nil {
		return err
	}

	if output == "json" {
		return cmdutil.PrintJSON(cmd, redacted(srv))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Server %q (ID: %d) updated.\n", srv.Name, srv.ID)
	return nil
}

// updateOpts builds a partial update from the flags that were set.
func updateOpts(cmd *cobra.Command) domain.UpdateServerOpts {
	var opts domain.UpdateServerOpts
	flags := cmd.Flags()

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	opts.Name = str("name")
	opts.URL = str("url")
	opts.Username = str("username")
	opts.Password = str("password")

	if flags.Changed("config") {
		raw, _ := flags.GetString("config")
		opts.Config = json.RawMessage(raw)
	}
	if flags.Changed("active") {
		active, _ := flags.GetBool("active")
		opts.Active = &active
	}
	return opts
}
