package server

import (
	"fmt"
	"text/tabwriter"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/tui/styles"

	"github.com/spf13/cobra"
)

// redacted returns a copy of srv without its admin password.
func redacted(srv *domain.ServerConfig) *domain.ServerConfig {
	out := *srv
	out.Password = ""
	return &out
}

// printServer writes srv as JSON or as a vertical key-value table.
func printServer(cmd *cobra.Command, srv *domain.ServerConfig, output string) error {
	if output == "json" {
		return cmdutil.PrintJSON(cmd, redacted(srv))
	}

	fmt.Fprintln(cmd.OutOrStdout(), styles.Title.Render(fmt.Sprintf("Server %s", srv.Name)))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	row := func(label, value string) {
		fmt.Fprintf(w, "  %s\t%s\n", styles.Label.Render(label+":"), value)
	}
	row("ID", fmt.Sprint(srv.ID))
	row("Name", srv.Name)
	row("URL", srv.URL)
	row("Username", srv.Username)
	row("Status", styles.StatusIndicator(styles.ActiveStatus(srv.Active)))
	if len(srv.Config) > 0 && string(srv.Config) != "{}" {
		row("Config", string(srv.Config))
	} else {
		row("Config", styles.MutedText.Render("(none)"))
	}
	if !srv.CreatedAt.IsZero() {
		row("Created", srv.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	if !srv.UpdatedAt.IsZero() {
		row("Updated", srv.UpdatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	}
	return w.Flush()
}
