package audit

import "github.com/spf13/cobra"

// NewCommand returns the "audit" command group. Run without a subcommand it
// behaves like "audit list".
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "audit",
		Aliases: []string{"log"},
		Short:   "View and prune the audit trail",
		Long: `Registry changes and order hooks are recorded in the module database by
both the CLI and the admin API. Running "audit" alone lists recent entries.`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}
	addListFlags(cmd)

	cmd.AddCommand(ListCommand(), PruneCommand())
	return cmd
}
