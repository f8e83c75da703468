package registry

import (
	"encoding/json"
	"strings"

	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/util"
)

// normalizeCreate trims the name and username and rejects a registration the
// client could never use. The URL is stored exactly as given.
func normalizeCreate(opts domain.CreateServerOpts) (domain.CreateServerOpts, error) {
	opts.Name = strings.TrimSpace(opts.Name)
	opts.Username = strings.TrimSpace(opts.Username)

	if opts.Name == "" {
		return opts, domain.NewValidationError("name", "name is required")
	}
	if err := util.ValidateServerURL(opts.URL); err != nil {
		return opts, domain.NewValidationError("url", err.Error())
	}

	config, err := normalizeConfig(opts.Config)
	if err != nil {
		return opts, err
	}
	opts.Config = config
	return opts, nil
}

// applyUpdate merges a partial update into srv. Nil fields keep the stored
// value.
func applyUpdate(srv *domain.ServerConfig, opts domain.UpdateServerOpts) error {
	if opts.Name != nil {
		name := strings.TrimSpace(*opts.Name)
		if name == "" {
			return domain.NewValidationError("name", "name must not be empty")
		}
		srv.Name = name
	}
	if opts.URL != nil {
		if err := util.ValidateServerURL(*opts.URL); err != nil {
			return domain.NewValidationError("url", err.Error())
		}
		srv.URL = *opts.URL
	}
	if opts.Username != nil {
		srv.Username = strings.TrimSpace(*opts.Username)
	}
	if opts.Password != nil {
		srv.Password = *opts.Password
	}
	if opts.HasConfig() {
		config, err := normalizeConfig(opts.Config)
		if err != nil {
			return err
		}
		srv.Config = config
	}
	if opts.Active != nil {
		srv.Active = *opts.Active
	}
	return nil
}

// normalizeConfig defaults an empty config to {} and requires a JSON object.
func normalizeConfig(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return json.RawMessage("{}"), nil
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(trimmed), &obj); err != nil {
		return nil, domain.NewValidationError("config", "config must be a JSON object")
	}
	return json.RawMessage(trimmed), nil
}
