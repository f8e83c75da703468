package cmd

import (
	"os"

	"noracloud/servicenextcloud/cmd/commands/audit"
	"noracloud/servicenextcloud/cmd/commands/auth"
	"noracloud/servicenextcloud/cmd/commands/catalog"
	cfgcmd "noracloud/servicenextcloud/cmd/commands/config"
	"noracloud/servicenextcloud/cmd/commands/module"
	"noracloud/servicenextcloud/cmd/commands/order"
	"noracloud/servicenextcloud/cmd/commands/serve"
	"noracloud/servicenextcloud/cmd/commands/server"
	"noracloud/servicenextcloud/internal/auditlog"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "servicenextcloud",
		Short: "Provision Nextcloud accounts for billing platform orders",
		Long: `servicenextcloud keeps a registry of Nextcloud servers and drives the
order lifecycle hooks (create, activate, renew, suspend, unsuspend, cancel,
uncancel, delete) for the services provisioned on them.

Quick start:
  servicenextcloud server create           # Register a Nextcloud server
  servicenextcloud server test --all       # Check every server
  servicenextcloud product set --product 3 --server 1
  servicenextcloud order activate --order 1001 --client 7 --product 3
  servicenextcloud auth login --generate   # Create an admin API token
  servicenextcloud serve                   # Start the admin API`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
				Actor: "cli",
				Args:  auditlog.CommandLine(os.Args[1:]),
			}))
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	cmd.AddCommand(audit.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(catalog.ProductCommand())
	cmd.AddCommand(catalog.ClientCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(module.NewCommand())
	cmd.AddCommand(order.NewCommand())
	cmd.AddCommand(serve.NewCommand())
	cmd.AddCommand(server.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
