package order

import (
	"fmt"
	"text/tabwriter"

	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/tui/styles"

	"github.com/spf13/cobra"
)

func printService(cmd *cobra.Command, svc *domain.ServiceInstance) error {
	fmt.Fprintln(cmd.OutOrStdout(), styles.Title.Render(fmt.Sprintf("Order %d", svc.OrderID)))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		fmt.Fprintf(w, "  %s\t%s\n", styles.Label.Render(label+":"), value)
	}
	row("Client", fmt.Sprint(svc.ClientID))
	row("Server", fmt.Sprint(svc.ServerID))
	if svc.Hostname != "" {
		row("Hostname", svc.Hostname)
	} else {
		row("Hostname", styles.MutedText.Render("(not activated)"))
	}
	row("Status", styles.StatusIndicator(styles.ActiveStatus(svc.Active)))
	if !svc.UpdatedAt.IsZero() {
		row("Updated", svc.UpdatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	return w.Flush()
}
