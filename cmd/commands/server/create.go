package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/tui"

	"github.com/spf13/cobra"
)

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a Nextcloud server",
		Long: `Register a Nextcloud server and the admin credentials used to reach its
OCS API.

--name, --url and --username are required unless you run in a terminal, in
which case a form asks for whatever is missing. The password is prompted
for when --password is omitted.

Examples:
  # Interactive
  servicenextcloud server create

  # Scripting
  servicenextcloud server create --name fra1 \
    --url https://cloud.example.com --username admin --password secret`,
		RunE:         runCreate,
		SilenceUsage: true,
	}

	cmd.Flags().String("name", "", "Display name for the server")
	cmd.Flags().String("url", "", "Base URL of the Nextcloud instance")
	cmd.Flags().String("username", "", "Admin username")
	cmd.Flags().String("password", "", "Admin password (prompted for when omitted)")
	cmd.Flags().String("config", "", "Extra configuration as a JSON object")
	cmd.Flags().Bool("verify", false, "Test the connection after registering")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	if err := cmdutil.CheckOutput(output); err != nil {
		return err
	}

	opts := domain.CreateServerOpts{}
	opts.Name, _ = cmd.Flags().GetString("name")
	opts.URL, _ = cmd.Flags().GetString("url")
	opts.Username, _ = cmd.Flags().GetString("username")
	opts.Password, _ = cmd.Flags().GetString("password")
	if raw, _ := cmd.Flags().GetString("config"); raw != "" {
		opts.Config = json.RawMessage(raw)
	}

	complete := opts.Name != "" && opts.URL != "" && opts.Username != ""
	if !complete || opts.Password == "" {
		if !cmdutil.Interactive() {
			if !complete {
				return fmt.Errorf("--name, --url and --username are required in non-interactive mode")
			}
		} else {
			filled, err := tui.ServerForm(opts)
			if err != nil {
				if errors.Is(err, tui.ErrAborted) {
					fmt.Fprintln(cmd.ErrOrStderr(), "Server registration cancelled.")
					return nil
				}
				return err
			}
			opts = *filled
		}
	}

	a, err := cmdutil.OpenApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmdutil.Context(cmd)
	srv, err := a.Registry.Create(ctx, opts)
	if err != nil {
		return err
	}

	if verify, _ := cmd.Flags().GetBool("verify"); verify {
		ok, err := a.Registry.TestConnection(ctx, srv.ID)
		switch {
		case err != nil:
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: connection test failed: %v\n", err)
		case !ok:
			fmt.Fprintln(cmd.ErrOrStderr(), "Warning: connection test failed.")
		}
	}

	if output == "json" {
		return cmdutil.PrintJSON(cmd, redacted(srv))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Server %q registered (ID: %d).\n", srv.Name, srv.ID)
	return nil
}
