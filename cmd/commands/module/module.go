// Package module installs, removes and upgrades the module's tables.
package module

import (
	"errors"
	"fmt"
	"strings"

	"noracloud/servicenextcloud/cmd/commands/cmdutil"
	"noracloud/servicenextcloud/internal/store"
	"noracloud/servicenextcloud/internal/tui"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "module",
		Short: "Install, uninstall or upgrade the module",
		Long: `Manage the module's database tables.

Every command opens the database and installs the tables when they are
missing, so "install" is only needed to create them ahead of time.`,
	}

	cmd.AddCommand(installCommand())
	cmd.AddCommand(uninstallCommand())
	cmd.AddCommand(updateCommand())
	cmd.AddCommand(versionCommand())

	return cmd
}

func installCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "install",
		Short:        "Create the module tables",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := cmdutil.OpenApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Store.Install(cmdutil.Context(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Module installed.")
			return nil
		},
	}
}

func uninstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Drop the module tables and all their data",
		Long: `Drop every table the module owns. Servers, services, products and
clients are lost. The audit log is kept.

Requires --yes outside a terminal.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				if !cmdutil.Interactive() {
					return fmt.Errorf("refusing to uninstall without --yes")
				}
				if err := tui.Confirm("Drop all servicenextcloud tables? This cannot be undone.", "Yes, uninstall"); err != nil {
					if errors.Is(err, tui.ErrAborted) {
						fmt.Fprintln(cmd.ErrOrStderr(), "Uninstall cancelled.")
						return nil
					}
					return err
				}
			}

			a, err := cmdutil.OpenApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Store.Uninstall(cmdutil.Context(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Module uninstalled.")
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func updateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Upgrade the module tables to a version",
		Long: `Apply schema changes and record the installed version.

Example:
  servicenextcloud module update --version 1.2.0`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			version, _ := cmd.Flags().GetString("version")
			version = strings.TrimSpace(version)
			if version == "" {
				return fmt.Errorf("--version is required")
			}

			a, err := cmdutil.OpenApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Store.Update(cmdutil.Context(cmd), store.Manifest{Version: version}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Module updated to %s.\n", version)
			return nil
		},
	}

	cmd.Flags().String("version", "", "Version being installed")

	return cmd
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "version",
		Short:        "Print the installed module version",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := cmdutil.OpenApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			v, err := a.Store.Version(cmdutil.Context(cmd))
			if err != nil {
				return err
			}
			if v == "" {
				v = "not recorded"
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}
