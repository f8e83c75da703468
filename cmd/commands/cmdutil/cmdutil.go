// Package cmdutil holds helpers shared by the CLI commands.
package cmdutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"noracloud/servicenextcloud/internal/app"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Context returns the command context, or a background context when the
// command runs outside Execute.
func Context(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// OpenApp opens the database and builds the services. The CLI only logs
// when --debug or the debug config key is set.
func OpenApp(cmd *cobra.Command) (*app.App, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	return app.Open(Context(cmd), app.Options{Debug: debug, Quiet: true})
}

// PrintJSON encodes v as indented JSON to the command's stdout.
func PrintJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CheckOutput rejects output formats other than table and json.
func CheckOutput(output string) error {
	switch output {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}
}

// Interactive reports whether both stdin and stdout are terminals.
func Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// ReadSecret prompts for a value without echoing it.
func ReadSecret(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
