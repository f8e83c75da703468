package config

import (
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

// KeySpec describes one "config get/set" key and the Config field behind it.
type KeySpec struct {
	Name        string
	Description string
	// Default is what the accessor methods fall back to, for display only.
	Default string
	// Field addresses the backing string in a Config.
	Field func(cfg *Config) *string
	// Validate rejects malformed non-empty values. Nil accepts anything.
	Validate func(value string) error
}

func (k KeySpec) Get(cfg *Config) string { return *k.Field(cfg) }

// Set stores value in memory; the caller saves.
func (k KeySpec) Set(cfg *Config, value string) { *k.Field(cfg) = value }

// Keys lists every supported key in display order.
var Keys = []KeySpec{
	{
		Name:        "database-path",
		Description: "SQLite database file (SERVICENEXTCLOUD_DB overrides it)",
		Default:     "<user config dir>/servicenextcloud/servicenextcloud.db",
		Field:       func(cfg *Config) *string { return &cfg.DatabasePath },
	},
	{
		Name:        "request-timeout",
		Description: "Timeout for each Nextcloud API request",
		Default:     DefaultRequestTimeout.String(),
		Field:       func(cfg *Config) *string { return &cfg.RequestTimeout },
		Validate:    positiveDuration,
	},
	{
		Name:        "listen",
		Description: "Address the admin API listens on",
		Default:     DefaultListen,
		Field:       func(cfg *Config) *string { return &cfg.Listen },
		Validate: func(v string) error {
			if _, _, err := net.SplitHostPort(v); err != nil {
				return fmt.Errorf("invalid listen address %q: %v", v, err)
			}
			return nil
		},
	},
	{
		Name:        "debug",
		Description: "Enable debug logging (true or false)",
		Default:     "false",
		Field:       func(cfg *Config) *string { return &cfg.Debug },
		Validate: func(v string) error {
			if _, err := strconv.ParseBool(v); err != nil {
				return fmt.Errorf("invalid boolean %q", v)
			}
			return nil
		},
	},
}

func positiveDuration(v string) error {
	d, err := time.ParseDuration(v)
	switch {
	case err != nil:
		return fmt.Errorf("invalid duration %q", v)
	case d <= 0:
		return fmt.Errorf("duration must be positive, got %s", d)
	}
	return nil
}

// Lookup finds a key by name, ignoring case and surrounding space.
func Lookup(name string) *KeySpec {
	name = strings.ToLower(strings.TrimSpace(name))
	i := slices.IndexFunc(Keys, func(k KeySpec) bool { return k.Name == name })
	if i < 0 {
		return nil
	}
	return &Keys[i]
}

func KeyNames() []string {
	names := make([]string, 0, len(Keys))
	for _, k := range Keys {
		names = append(names, k.Name)
	}
	return names
}

// KeysHelp renders the key table used in command help.
func KeysHelp() string {
	var b strings.Builder
	b.WriteString("Available keys:\n")
	w := tabwriter.NewWriter(&b, 0, 0, 3, ' ', 0)
	for _, k := range Keys {
		fmt.Fprintf(w, "  %s\t%s (default %s)\n", k.Name, k.Description, k.Default)
	}
	w.Flush()
	return b.String()
}
