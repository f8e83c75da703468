package catalog

import (
	"fmt"
	"strings"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/domain"

	"github.com/spf13/cobra"
)

func ClientCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage billing client records",
	}

	cmd.AddCommand(clientAddCommand())
	cmd.AddCommand(clientShowCommand())

	return cmd
}

func clientAddCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or replace a client record",
		Long: `Add or replace a client record.

Example:
  servicenextcloud client add --id 7 --email jane@example.com --name "Jane Doe"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c domain.Client
			c.ID, _ = cmd.Flags().GetInt64("id")
			c.Email, _ = cmd.Flags().GetString("email")
			c.Name, _ = cmd.Flags().GetString("name")
			c.Email = strings.TrimSpace(c.Email)
			if c.ID <= 0 {
				return fmt.Errorf("--id must be a positive id")
			}

			a, err := cmdutil.OpenApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Store.SaveClient(cmdutil.Context(cmd), c); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Client %d saved.\n", c.ID)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().Int64("id", 0, "Client ID")
	cmd.Flags().String("email", "", "Client email")
	cmd.Flags().String("name", "", "Client name")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func clientShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a client record",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetInt64("id")

			a, err := cmdutil.OpenApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.Store.Client(cmdutil.Context(cmd), id)
			if err != nil {
				return err
			}
			return cmdutil.PrintJSON(cmd, c)
		},
		SilenceUsage: true,
	}

	cmd.Flags().Int64("id", 0, "Client ID")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
