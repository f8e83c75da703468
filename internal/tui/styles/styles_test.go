package styles

import (
	"strings"
	"testing"
)

func TestActiveStatus(t *testing.T) {
	if got := ActiveStatus(true); got != "active" {
		t.Errorf("ActiveStatus(true) = %q", got)
	}
	if got := ActiveStatus(false); got != "inactive" {
		t.Errorf("ActiveStatus(false) = %q", got)
	}
}

func TestStatusIndicator_KeepsStatusText(t *testing.T) {
	for _, status := range []string{"active", "inactive", "ok", "failed", "unknown"} {
		if got := StatusIndicator(status); !strings.Contains(got, status) {
			t.Errorf("StatusIndicator(%q) = %q, missing status text", status, got)
		}
	}
}

func TestTextStyles_KeepText(t *testing.T) {
	styles := map[string]func(...string) string{
		"Title":     Title.Render,
		"Label":     Label.Render,
		"MutedText": MutedText.Render,
		"ErrorText": ErrorText.Render,
	}
	for name, render := range styles {
		if got := render("Hostname:"); !strings.Contains(got, "Hostname:") {
			t.Errorf("%s.Render dropped its text: %q", name, got)
		}
	}
}
