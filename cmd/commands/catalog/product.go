// Package catalog manages the product and client records the billing
// platform would otherwise own.
package catalog

import (
	"encoding/json"
	"fmt"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/domain"

	"github.com/spf13/cobra"
)

func ProductCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Bind billable products to Nextcloud servers",
	}

	cmd.AddCommand(productSetCommand())
	cmd.AddCommand(productShowCommand())

	return cmd
}

func productSetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Bind a product to a server",
		Long: `Bind a product to the server its orders are provisioned on.

Example:
  servicenextcloud product set --product 3 --server 1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var p domain.ProductConfig
			p.ProductID, _ = cmd.Flags().GetInt64("product")
			p.ServerID, _ = cmd.Flags().GetInt64("server")
			if raw, _ := cmd.Flags().GetString("config"); raw != "" {
				if !json.Valid([]byte(raw)) {
					return domain.NewValidationError("config", "config must be valid JSON")
				}
				p.Config = json.RawMessage(raw)
			}
			if p.ProductID <= 0 {
				return fmt.Errorf("--product must be a positive id")
			}

			a, err := cmdutil.OpenApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmdutil.Context(cmd)
			srv, err := a.Registry.Get(ctx, p.ServerID)
			if err != nil {
				return err
			}
			if err := a.Store.SaveProduct(ctx, p); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Product %d bound to server %q (ID: %d).\n", p.ProductID, srv.Name, srv.ID)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().Int64("product", 0, "Product ID")
	cmd.Flags().Int64("server", 0, "Server ID")
	cmd.Flags().String("config", "", "Product configuration as JSON")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("server")

	return cmd
}

func productShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the server a product is bound to",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetInt64("product")

			a, err := cmdutil.OpenApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.Store.Product(cmdutil.Context(cmd), id)
			if err != nil {
				return err
			}
			return cmdutil.PrintJSON(cmd, p)
		},
		SilenceUsage: true,
	}

	cmd.Flags().Int64("product", 0, "Product ID")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}
