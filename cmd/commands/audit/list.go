package audit

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/auditlog"
	"noracloud/servicenextcloud/internal/config"
	"noracloud/servicenextcloud/internal/database"

	"github.com/spf13/cobra"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit entries",
		Long: `List audit entries, newest first.

Examples:
  servicenextcloud audit list --limit 50
  servicenextcloud audit list --action order.activate --outcome error
  servicenextcloud audit list --resource server:3
  servicenextcloud audit list -o json`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}

	addListFlags(cmd)
	return cmd
}

func addListFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Int("limit", 25, "Number of entries to display")
	f.String("action", "", "Only entries for this action, e.g. server.create")
	f.String("resource", "", "Only entries for a resource, as type or type:id (e.g. order:1001)")
	f.String("outcome", "", "Only entries with this outcome: success or error")
	f.StringP("output", "o", "table", "Output format: table or json")
}

// queryFromFlags builds the repository query behind "audit list".
func queryFromFlags(cmd *cobra.Command) (auditlog.Query, error) {
	f := cmd.Flags()
	var q auditlog.Query

	q.Limit, _ = f.GetInt("limit")
	if q.Limit <= 0 {
		return q, fmt.Errorf("limit must be greater than 0")
	}
	q.Action, _ = f.GetString("action")

	resource, _ := f.GetString("resource")
	q.ResourceType, q.ResourceID, _ = strings.Cut(resource, ":")

	q.Outcome, _ = f.GetString("outcome")
	switch q.Outcome {
	case "", auditlog.OutcomeSuccess, auditlog.OutcomeError:
	default:
		return q, fmt.Errorf("--outcome must be %q or %q", auditlog.OutcomeSuccess, auditlog.OutcomeError)
	}
	return q, nil
}

func runList(cmd *cobra.Command, args []string) error {
	q, err := queryFromFlags(cmd)
	if err != nil {
		return err
	}
	output, _ := cmd.Flags().GetString("output")
	if err := cmdutil.CheckOutput(output); err != nil {
		return err
	}

	repo, err := openRepo()
	if err != nil {
		return err
	}
	defer repo.Close()

	entries, err := repo.Find(cmdutil.Context(cmd), q)
	if err != nil {
		return err
	}

	if output == "json" {
		return cmdutil.PrintJSON(cmd, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No audit entries found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tACTOR\tOUTCOME\tDURATION\tRESOURCE\tDETAIL")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime),
			e.Action,
			orDash(e.Actor),
			e.Outcome,
			formatDuration(e.DurationMs),
			formatResource(e),
			orDash(e.Detail),
		)
	}
	return w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", ms)
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
}

// formatResource renders "type:id (name)", dropping whichever parts are empty.
func formatResource(e auditlog.AuditEntry) string {
	ref := strings.Trim(e.ResourceType+":"+e.ResourceID, ":")
	switch {
	case ref == "" && e.ResourceName == "":
		return "-"
	case ref == "":
		return e.ResourceName
	case e.ResourceName == "":
		return ref
	default:
		return ref + " (" + e.ResourceName + ")"
	}
}

// openRepo opens the audit log in the configured database.
func openRepo() (*auditlog.SQLiteRepository, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	path, err := database.ResolvePath(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	return auditlog.OpenAt(path)
}
