package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// ServerConfig is a registered Nextcloud server together with the
// administrative credentials used to reach its OCS API.
type ServerConfig struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	URL       string          `json:"url"`
	Username  string          `json:"username"`
	Password  string          `json:"password,omitempty"`
	Config    json.RawMessage `json:"config,omitempty"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Summary returns the list view of the server.
func (s *ServerConfig) Summary() ServerSummary {
	return ServerSummary{ID: s.ID, Name: s.Name, URL: s.URL, Active: s.Active}
}

// ServerSummary is the shape returned when listing servers.
type ServerSummary struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// CreateServerOpts holds the fields accepted when registering a server.
type CreateServerOpts struct {
	Name     string          `json:"name"`
	URL      string          `json:"url"`
	Username string          `json:"username"`
	Password string          `json:"password"`
	Config   json.RawMessage `json:"config,omitempty"`
}

// UpdateServerOpts holds a partial update. A nil field keeps the stored value.
type UpdateServerOpts struct {
	Name     *string         `json:"name,omitempty"`
	URL      *string         `json:"url,omitempty"`
	Username *string         `json:"username,omitempty"`
	Password *string         `json:"password,omitempty"`
	Config   json.RawMessage `json:"config,omitempty"`
	Active   *bool           `json:"active,omitempty"`
}

// HasConfig reports whether the update carries a config. An absent field and
// an explicit JSON null both leave the stored config alone.
func (o UpdateServerOpts) HasConfig() bool {
	trimmed := bytes.TrimSpace(o.Config)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// IsEmpty reports whether the update would change nothing.
func (o UpdateServerOpts) IsEmpty() bool {
	return o.Name == nil && o.URL == nil && o.Username == nil &&
		o.Password == nil && !o.HasConfig() && o.Active == nil
}
