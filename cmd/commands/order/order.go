// Package order exposes the order lifecycle hooks on the command line, the
// same way the billing platform calls them.
package order

import (
	"context"
	"fmt"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/provisioning"

	"github.com/spf13/cobra"
)

// hook runs one lifecycle operation. Hooks without a service result return nil.
type hook func(ctx context.Context, p *provisioning.Service, o domain.Order) (*domain.ServiceInstance, error)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Run order lifecycle hooks",
		Long: `Run the lifecycle hooks the billing platform calls for an order.

Every subcommand takes the order, client and product ids:
  servicenextcloud order create   --order 1001 --client 7 --product 3
  servicenextcloud order activate --order 1001 --client 7 --product 3`,
	}

	cmd.AddCommand(
		hookCommand("create", "Allocate the service for a new order", func(ctx context.Context, p *provisioning.Service, o domain.Order) (*domain.ServiceInstance, error) {
			return p.Create(ctx, o)
		}),
		hookCommand("activate", "Bind the service to its server and activate it", func(ctx context.Context, p *provisioning.Service, o domain.Order) (*domain.ServiceInstance, error) {
			return p.Activate(ctx, o)
		}),
		hookCommand("renew", "Renew the service", func(ctx context.Context, p *provisioning.Service, o domain.Order) (*domain.ServiceInstance, error) {
			return p.Renew(ctx, o)
		}),
		hookCommand("suspend", "Suspend the service", func(ctx context.Context, p *provisioning.Service, o domain.Order) (*domain.ServiceInstance, error) {
			return p.Suspend(ctx, o)
		}),
		hookCommand("unsuspend", "Reactivate a suspended service", func(ctx context.Context, p *provisioning.Service, o domain.Order) (*domain.ServiceInstance, error) {
			return p.Unsuspend(ctx, o)
		}),
		hookCommand("cancel", "Cancel the service", func(ctx context.Context, p *provisioning.Service, o domain.Order) (*domain.ServiceInstance, error) {
			return p.Cancel(ctx, o)
		}),
		hookCommand("uncancel", "Reactivate a cancelled service", func(ctx context.Context, p *provisioning.Service, o domain.Order) (*domain.ServiceInstance, error) {
			return p.Uncancel(ctx, o)
		}),
		hookCommand("delete", "Remove the service", func(ctx context.Context, p *provisioning.Service, o domain.Order) (*domain.ServiceInstance, error) {
			return nil, p.Delete(ctx, o)
		}),
		hookCommand("show", "Show the service of an order", func(ctx context.Context, p *provisioning.Service, o domain.Order) (*domain.ServiceInstance, error) {
			return p.Get(ctx, o.ID)
		}),
	)

	return cmd
}

func hookCommand(name, short string, run hook) *cobra.Command {
	cmd := &cobra.Command{
		Use:          name,
		Short:        short,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var o domain.Order
			o.ID, _ = cmd.Flags().GetInt64("order")
			o.ClientID, _ = cmd.Flags().GetInt64("client")
			o.ProductID, _ = cmd.Flags().GetInt64("product")
			if o.ID <= 0 {
				return fmt.Errorf("--order must be a positive id")
			}

			output, _ := cmd.Flags().GetString("output")
			if err := cmdutil.CheckOutput(output); err != nil {
				return err
			}

			a, err := cmdutil.OpenApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			svc, err := run(cmdutil.Context(cmd), a.Provisioning, o)
			if err != nil {
				return err
			}

			if svc == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Order %d: %s done.\n", o.ID, name)
				return nil
			}
			if output == "json" {
				return cmdutil.PrintJSON(cmd, svc)
			}
			return printService(cmd, svc)
		},
	}

	cmd.Flags().Int64("order", 0, "Order ID")
	cmd.Flags().Int64("client", 0, "Client ID")
	cmd.Flags().Int64("product", 0, "Product ID")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")
	_ = cmd.MarkFlagRequired("order")

	return cmd
}
