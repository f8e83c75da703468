package auth

import (
	"errors"
	"testing"

	"github.com/zalando/go-keyring"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	s := NewMemoryStore()

	if _, err := s.GetToken(AdminTokenKey); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
	if err := s.SetToken(" Admin-API ", "abc"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	got, err := s.GetToken(AdminTokenKey)
	if err != nil || got != "abc" {
		t.Fatalf("GetToken = (%q, %v), want abc", got, err)
	}
	if err := s.DeleteToken(AdminTokenKey); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}
	if err := s.DeleteToken(AdminTokenKey); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("second DeleteToken: expected ErrTokenNotFound, got %v", err)
	}
}

func TestKeyringStore_WithMockProvider(t *testing.T) {
	keyring.MockInit()
	s := NewKeyringStore("")

	if _, err := s.GetToken(AdminTokenKey); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
	if err := s.SetToken(AdminTokenKey, "secret"); err != nil {
		t.Fatalf("SetToken failed: %v", err)
	}
	got, err := s.GetToken("ADMIN-API")
	if err != nil || got != "secret" {
		t.Fatalf("GetToken = (%q, %v), want secret", got, err)
	}
	if err := s.DeleteToken(AdminTokenKey); err != nil {
		t.Fatalf("DeleteToken failed: %v", err)
	}
	if err := s.DeleteToken(AdminTokenKey); !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("second DeleteToken: expected ErrTokenNotFound, got %v", err)
	}
}

func TestStores_RejectBlankInput(t *testing.T) {
	keyring.MockInit()
	stores := map[string]Store{
		"memory":  NewMemoryStore(),
		"keyring": NewKeyringStore(ServiceName),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			if err := s.SetToken("  ", "abc"); err == nil {
				t.Error("expected error for blank name")
			}
			if err := s.SetToken(AdminTokenKey, ""); err == nil {
				t.Error("expected error for empty token")
			}
			if _, err := s.GetToken(AdminTokenKey); !errors.Is(err, ErrTokenNotFound) {
				t.Errorf("expected nothing stored, got %v", err)
			}
		})
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	b, _ := GenerateToken()
	if len(a) != 64 {
		t.Errorf("len = %d, want 64", len(a))
	}
	if a == b {
		t.Error("expected distinct tokens")
	}
}
