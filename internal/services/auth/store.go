package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zalando/go-keyring"
)

// KeyringStore files secrets in the platform keychain (Secret Service,
// macOS Keychain or Windows Credential Manager).
type KeyringStore struct {
	service string
}

func NewKeyringStore(service string) *KeyringStore {
	if service == "" {
		service = ServiceName
	}
	return &KeyringStore{service: service}
}

func (k *KeyringStore) SetToken(name string, token string) error {
	key, err := checkName(name)
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("auth: refusing to store an empty token")
	}
	if err := keyring.Set(k.service, key, token); err != nil {
		return fmt.Errorf("auth: keychain write for %q: %w", key, err)
	}
	return nil
}

func (k *KeyringStore) GetToken(name string) (string, error) {
	key, err := checkName(name)
	if err != nil {
		return "", err
	}
	token, err := keyring.Get(k.service, key)
	return token, k.translate(key, err)
}

func (k *KeyringStore) DeleteToken(name string) error {
	key, err := checkName(name)
	if err != nil {
		return err
	}
	return k.translate(key, keyring.Delete(k.service, key))
}

func (k *KeyringStore) translate(key string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keyring.ErrNotFound):
		return ErrTokenNotFound
	default:
		return fmt.Errorf("auth: keychain access for %q: %w", key, err)
	}
}

// MemoryStore holds secrets in process memory. Tests and one-shot tooling
// use it where no keychain is reachable.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: map[string]string{}}
}

func (m *MemoryStore) SetToken(name string, token string) error {
	key, err := checkName(name)
	if err != nil {
		return err
	}
	if token == "" {
		return errors.New("auth: refusing to store an empty token")
	}
	m.mu.Lock()
	m.tokens[key] = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) GetToken(name string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if token, ok := m.tokens[NormalizeName(name)]; ok {
		return token, nil
	}
	return "", ErrTokenNotFound
}

func (m *MemoryStore) DeleteToken(name string) error {
	key := NormalizeName(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[key]; !ok {
		return ErrTokenNotFound
	}
	delete(m.tokens, key)
	return nil
}

var (
	_ Store = (*KeyringStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
