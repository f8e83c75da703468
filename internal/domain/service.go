package domain

import (
	"encoding/json"
	"time"
)

// ServiceInstance is the provisioning record bound to exactly one order.
type ServiceInstance struct {
	ID         int64           `json:"id"`
	ClientID   int64           `json:"client_id"`
	OrderID    int64           `json:"order_id"`
	ServerID   int64           `json:"server_id"`
	ServerUUID string          `json:"server_uuid,omitempty"`
	Hostname   string          `json:"hostname,omitempty"`
	Password   string          `json:"password,omitempty"`
	Config     json.RawMessage `json:"config,omitempty"`
	Active     bool            `json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Order is the billing order passed to lifecycle hooks. It is owned by the
// billing platform and never persisted here.
type Order struct {
	ID        int64 `json:"order_id"`
	ClientID  int64 `json:"client_id"`
	ProductID int64 `json:"product_id"`
}

// ProductConfig binds a billable product to the server its orders use.
type ProductConfig struct {
	ProductID int64           `json:"product_id"`
	ServerID  int64           `json:"server_id"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Client is the billing client an order belongs to.
type Client struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
