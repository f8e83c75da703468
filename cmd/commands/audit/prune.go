package audit

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"

	"github.com/spf13/cobra"
)

// Units accepted on top of what time.ParseDuration understands.
var longUnits = map[string]time.Duration{
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

func PruneCommand() *cobra.Command {
	var (
		olderThan string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old audit entries",
		Long: `Delete audit entries recorded before a cutoff. Durations accept the
usual Go units plus d (days) and w (weeks).

Examples:
  servicenextcloud audit prune --older-than 4w
  servicenextcloud audit prune --older-than 30d --dry-run`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(olderThan) == "" {
				return fmt.Errorf("--older-than is required")
			}
			age, err := parseDuration(olderThan)
			if err != nil {
				return err
			}

			repo, err := openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmdutil.Context(cmd)
			if dryRun {
				n, err := repo.CountOlderThan(ctx, age)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Would remove %d audit %s.\n", n, entryNoun(n))
				return nil
			}

			n, err := repo.Prune(ctx, age)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d audit %s.\n", n, entryNoun(n))
			return nil
		},
	}

	cmd.Flags().StringVar(&olderThan, "older-than", "", "Remove entries older than this (e.g. 72h, 30d, 4w)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only report how many entries would be removed")

	return cmd
}

func entryNoun(n int64) string {
	if n == 1 {
		return "entry"
	}
	return "entries"
}

func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("duration is required")
	}

	unit := raw[len(raw)-1:]
	var d time.Duration
	if mult, ok := longUnits[unit]; ok {
		n, err := strconv.Atoi(raw[:len(raw)-1])
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
		d = time.Duration(n) * mult
	} else {
		var err error
		if d, err = time.ParseDuration(raw); err != nil {
			return 0, fmt.Errorf("invalid duration %q", raw)
		}
	}

	if d <= 0 {
		return 0, fmt.Errorf("duration %q must be positive", raw)
	}
	return d, nil
}
