package auth

import (
	"fmt"
	"strings"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/services/auth"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store the admin API token",
		Long: `Store the admin API token in the local keychain.

Pass --generate to create a random token; it is printed once so you can
hand it to the billing platform.

Examples:
  servicenextcloud auth login --generate
  servicenextcloud auth login --token "$TOKEN"`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			token, _ := cmd.Flags().GetString("token")
			generate, _ := cmd.Flags().GetBool("generate")
			token = strings.TrimSpace(token)

			var err error
			switch {
			case generate:
				if token, err = auth.GenerateToken(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return
				}
			case token == "":
				if !cmdutil.Interactive() {
					fmt.Fprintln(cmd.ErrOrStderr(), "Error: pass --token or --generate in non-interactive mode")
					return
				}
				if token, err = cmdutil.ReadSecret(cmd, "Enter admin API token: "); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return
				}
				token = strings.TrimSpace(token)
			}

			if token == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "Error: token cannot be empty")
				return
			}

			if err := auth.DefaultStore().SetToken(auth.AdminTokenKey, token); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return
			}

			if generate {
				fmt.Fprintf(cmd.OutOrStdout(), "Generated admin API token: %s\n", token)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Saved admin API token.")
		},
	}

	cmd.Flags().String("token", "", "Token to store (optional, overrides prompt)")
	cmd.Flags().Bool("generate", false, "Generate a random token")
	cmd.MarkFlagsMutuallyExclusive("token", "generate")

	return cmd
}
