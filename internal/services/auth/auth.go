// Package auth keeps servicenextcloud secrets in the OS keychain.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ServiceName is the keychain service every secret is filed under.
const ServiceName = "servicenextcloud"

// AdminTokenKey names the bearer token that guards the admin API.
const AdminTokenKey = "admin-api"

var ErrTokenNotFound = errors.New("auth token not found")

// Store reads and writes named secrets. Names are case and whitespace
// insensitive.
type Store interface {
	SetToken(name string, token string) error
	GetToken(name string) (string, error)
	DeleteToken(name string) error
}

// DefaultStore returns the keychain store used by the CLI and the API server.
func DefaultStore() Store {
	return NewKeyringStore(ServiceName)
}

// NormalizeName folds a secret name to the form it is stored under.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func checkName(name string) (string, error) {
	key := NormalizeName(name)
	if key == "" {
		return "", errors.New("auth: token name is required")
	}
	return key, nil
}

// GenerateToken returns a random 32-byte token, hex encoded.
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
