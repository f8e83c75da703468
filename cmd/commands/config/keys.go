package config

import (
	"fmt"
	"strings"

	"noracloud/servicenextcloud/internal/config"

	"github.com/spf13/cobra"
)

// GetCommand returns the "config get" command.
func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Show configuration values",
		Long: "Print one configuration value, or every key when none is named.\n" +
			"Unset keys show the default that applies instead.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  servicenextcloud config get\n" +
			"  servicenextcloud config get request-timeout",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				spec, err := lookup(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(out, display(*spec, cfg))
				return nil
			}

			for _, spec := range config.Keys {
				fmt.Fprintf(out, "%s: %s\n", spec.Name, display(spec, cfg))
			}
			return nil
		},
	}
}

// SetCommand returns the "config set" command.
func SetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change a configuration value",
		Long: "Validate and store a configuration value. Pass \"\" to clear a key\n" +
			"and fall back to its default.\n\n" +
			config.KeysHelp() +
			"\nExamples:\n" +
			"  servicenextcloud config set request-timeout 15s\n" +
			"  servicenextcloud config set listen \"\"",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := lookup(args[0])
			if err != nil {
				return err
			}
			value := strings.TrimSpace(args[1])
			if value != "" && spec.Validate != nil {
				if err := spec.Validate(value); err != nil {
					return err
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			spec.Set(cfg, value)
			if err := cfg.Save(); err != nil {
				return err
			}

			if value == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s cleared (default %s)\n", spec.Name, spec.Default)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s set to %q\n", spec.Name, value)
			}
			return nil
		},
	}
}

func lookup(name string) (*config.KeySpec, error) {
	if spec := config.Lookup(name); spec != nil {
		return spec, nil
	}
	return nil, fmt.Errorf("unknown configuration key %q (valid: %s)", name, strings.Join(config.KeyNames(), ", "))
}

func display(spec config.KeySpec, cfg *config.Config) string {
	if v := spec.Get(cfg); v != "" {
		return v
	}
	return "(not set, default " + spec.Default + ")"
}
