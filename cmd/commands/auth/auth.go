package auth

import "github.com/spf13/cobra"

// NewCommand returns the "auth" command group. Every subcommand works on the
// single admin API token stored under auth.AdminTokenKey.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the admin API token",
		Long: `Store, inspect or remove the bearer token that "servicenextcloud serve"
requires on every admin API request. The token lives in the OS keychain.`,
	}

	cmd.AddCommand(LoginCommand(), StatusCommand(), LogoutCommand())
	return cmd
}
