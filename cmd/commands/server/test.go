package server

import (
	"context"
	"fmt"
	"text/tabwriter"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/registry"
	"noracloud/servicenextcloud/internal/tui"
	"noracloud/servicenextcloud/internal/tui/styles"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxParallelTests caps concurrent connection tests for --all.
const maxParallelTests = 4

// TestResult is the outcome of one connection test.
type TestResult struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func TestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test connectivity and credentials of servers",
		Long: `Check that a server answers the OCS capabilities endpoint and accepts its
stored admin credentials.

Examples:
  servicenextcloud server test --id 1
  servicenextcloud server test --all
  servicenextcloud server test --all -o json`,
		RunE:         runTest,
		SilenceUsage: true,
	}

	cmd.Flags().Int64("id", 0, "Server ID to test")
	cmd.Flags().Bool("all", false, "Test every registered server")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")
	cmd.MarkFlagsOneRequired("id", "all")
	cmd.MarkFlagsMutuallyExclusive("id", "all")

	return cmd
}

func runTest(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetInt64("id")
	output, _ := cmd.Flags().GetString("output")
	if err := cmdutil.CheckOutput(output); err != nil {
		return err
	}

	a, err := cmdutil.OpenApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmdutil.Context(cmd)

	var targets []domain.ServerSummary
	if all, _ := cmd.Flags().GetBool("all"); all {
		targets, err = a.Registry.List(ctx)
	} else {
		var srv *domain.ServerConfig
		if srv, err = a.Registry.Get(ctx, id); err == nil {
			targets = []domain.ServerSummary{srv.Summary()}
		}
	}
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No servers found.")
		return nil
	}

	var results []TestResult
	run := func(ctx context.Context) error {
		results = testServers(ctx, a.Registry, targets)
		return nil
	}
	if cmdutil.Interactive() {
		err = tui.Spin(cmd.ErrOrStderr(), "Testing servers...", run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return err
	}

	if output == "json" {
		return cmdutil.PrintJSON(cmd, results)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tRESULT\tDETAIL")
	fmt.Fprintln(w, "--\t----\t------\t------")
	for _, r := range results {
		status, detail := "ok", styles.MutedText.Render("-")
		if !r.OK {
			status = "failed"
		}
		if r.Error != "" {
			detail = styles.ErrorText.Render(r.Error)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", r.ID, r.Name, styles.StatusIndicator(status), detail)
	}
	return w.Flush()
}

// testServers runs the connection tests concurrently and returns the results
// in the order of targets.
func testServers(ctx context.Context, reg *registry.Registry, targets []domain.ServerSummary) []TestResult {
	results := make([]TestResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelTests)
	for i, srv := range targets {
		g.Go(func() error {
			ok, err := reg.TestConnection(gctx, srv.ID)
			results[i] = TestResult{ID: srv.ID, Name: srv.Name, OK: ok && err == nil}
			if err != nil {
				results[i].Error = err.Error()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
