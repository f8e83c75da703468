package auth

import (
	"errors"
	"fmt"

	"noracloud/servicenextcloud/internal/services/auth"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether an admin API token is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := auth.DefaultStore().GetToken(auth.AdminTokenKey)
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: logged in\n", auth.AdminTokenKey)
			case errors.Is(err, auth.ErrTokenNotFound):
				fmt.Fprintf(cmd.OutOrStdout(), "%s: not logged in\n", auth.AdminTokenKey)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", auth.AdminTokenKey, err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored admin API token",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := auth.DefaultStore().DeleteToken(auth.AdminTokenKey)
			if err != nil && !errors.Is(err, auth.ErrTokenNotFound) {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Removed admin API token.")
			return nil
		},
		SilenceUsage: true,
	}

	return cmd
}
