package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"noracloud/servicenextcloud/internal/auditlog"
	"noracloud/servicenextcloud/internal/config"
	"noracloud/servicenextcloud/internal/database"
)

// setupTestEnv returns an audit repository on a temp database the commands
// will also open.
func setupTestEnv(t *testing.T) *auditlog.SQLiteRepository {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "servicenextcloud.db")
	database.SetPath(path)
	config.SetPath(filepath.Join(dir, "config.json"))
	t.Cleanup(func() {
		database.ResetPath()
		config.ResetPath()
	})

	repo, err := auditlog.OpenAt(path)
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func save(t *testing.T, repo *auditlog.SQLiteRepository, e auditlog.AuditEntry) {
	t.Helper()
	if err := repo.Save(context.Background(), &e); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
}

func execAudit(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func TestList_TableAndFilter(t *testing.T) {
	repo := setupTestEnv(t)
	now := time.Now().UTC()
	save(t, repo, auditlog.AuditEntry{
		Timestamp: now, Action: "server.create", Actor: "cli",
		ResourceType: "server", ResourceID: "1", ResourceName: "fra1", Outcome: auditlog.OutcomeSuccess, DurationMs: 12,
	})
	save(t, repo, auditlog.AuditEntry{
		Timestamp: now.Add(time.Second), Action: "order.activate", Actor: "api",
		ResourceType: "order", ResourceID: "1001", Outcome: auditlog.OutcomeError, Detail: "server not found",
	})

	stdout, stderr := execAudit(t, "list")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	for _, want := range []string{"ACTION", "ACTOR", "server.create", "server:1 (fra1)", "order.activate", "api", "12ms"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("list output missing %q:\n%s", want, stdout)
		}
	}

	stdout, _ = execAudit(t, "list", "--action", "order.activate", "-o", "json")
	var got []auditlog.AuditEntry
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("failed to parse JSON output: %v\n%s", err, stdout)
	}
	if len(got) != 1 || got[0].Action != "order.activate" || got[0].Detail != "server not found" {
		t.Errorf("unexpected entries: %+v", got)
	}
}

func TestList_ResourceAndOutcomeFilters(t *testing.T) {
	repo := setupTestEnv(t)
	now := time.Now().UTC()
	save(t, repo, auditlog.AuditEntry{Timestamp: now, Action: "order.activate", ResourceType: "order", ResourceID: "1001", Outcome: auditlog.OutcomeSuccess})
	save(t, repo, auditlog.AuditEntry{Timestamp: now, Action: "order.suspend", ResourceType: "order", ResourceID: "1002", Outcome: auditlog.OutcomeError})
	save(t, repo, auditlog.AuditEntry{Timestamp: now, Action: "server.update", ResourceType: "server", ResourceID: "3", Outcome: auditlog.OutcomeError})

	tests := []struct {
		args []string
		want []string
	}{
		{[]string{"--resource", "order:1002"}, []string{"order.suspend"}},
		{[]string{"--resource", "order"}, []string{"order.activate", "order.suspend"}},
		{[]string{"--outcome", "error"}, []string{"order.suspend", "server.update"}},
	}
	for _, tt := range tests {
		stdout, stderr := execAudit(t, append([]string{"list", "-o", "json"}, tt.args...)...)
		if stderr != "" {
			t.Fatalf("%v: unexpected stderr: %s", tt.args, stderr)
		}
		var got []auditlog.AuditEntry
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("%v: failed to parse JSON output: %v", tt.args, err)
		}
		var actions []string
		for _, e := range got {
			actions = append(actions, e.Action)
		}
		sort.Strings(actions)
		if strings.Join(actions, ",") != strings.Join(tt.want, ",") {
			t.Errorf("%v: actions = %v, want %v", tt.args, actions, tt.want)
		}
	}

	_, stderr := execAudit(t, "list", "--outcome", "maybe")
	if !strings.Contains(stderr, "--outcome must be") {
		t.Errorf("unexpected stderr for bad outcome: %s", stderr)
	}
}

func TestFormatResource(t *testing.T) {
	tests := []struct {
		e    auditlog.AuditEntry
		want string
	}{
		{auditlog.AuditEntry{}, "-"},
		{auditlog.AuditEntry{ResourceType: "server", ResourceID: "1", ResourceName: "fra1"}, "server:1 (fra1)"},
		{auditlog.AuditEntry{ResourceType: "order", ResourceID: "7"}, "order:7"},
		{auditlog.AuditEntry{ResourceID: "7"}, "7"},
		{auditlog.AuditEntry{ResourceName: "fra1"}, "fra1"},
	}
	for _, tt := range tests {
		if got := formatResource(tt.e); got != tt.want {
			t.Errorf("formatResource(%+v) = %q, want %q", tt.e, got, tt.want)
		}
	}
}

func TestAudit_DefaultsToList(t *testing.T) {
	repo := setupTestEnv(t)
	save(t, repo, auditlog.AuditEntry{Timestamp: time.Now().UTC(), Action: "order.renew", Actor: "api", Outcome: auditlog.OutcomeSuccess})

	stdout, stderr := execAudit(t, "--action", "order.renew")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "order.renew") {
		t.Errorf("expected bare audit to list entries:\n%s", stdout)
	}
}

func TestList_Empty(t *testing.T) {
	setupTestEnv(t)

	stdout, _ := execAudit(t, "list")
	if !strings.Contains(stdout, "No audit entries found.") {
		t.Errorf("unexpected output: %s", stdout)
	}
}

func TestList_InvalidLimit(t *testing.T) {
	setupTestEnv(t)

	_, stderr := execAudit(t, "list", "--limit", "0")
	if !strings.Contains(stderr, "limit must be greater than 0") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestPrune(t *testing.T) {
	repo := setupTestEnv(t)
	save(t, repo, auditlog.AuditEntry{Timestamp: time.Now().UTC().Add(-48 * time.Hour), Action: "server.delete", Outcome: auditlog.OutcomeSuccess})
	save(t, repo, auditlog.AuditEntry{Timestamp: time.Now().UTC(), Action: "server.create", Outcome: auditlog.OutcomeSuccess})

	stdout, stderr := execAudit(t, "prune", "--older-than", "1d", "--dry-run")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "Would remove 1 audit entry.") {
		t.Errorf("unexpected dry-run output: %s", stdout)
	}

	stdout, stderr = execAudit(t, "prune", "--older-than", "1d")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "Removed 1 audit entry.") {
		t.Errorf("unexpected output: %s", stdout)
	}

	entries, err := repo.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "server.create" {
		t.Errorf("unexpected remaining entries: %+v", entries)
	}
}

func TestPrune_RequiresOlderThan(t *testing.T) {
	setupTestEnv(t)
	_, stderr := execAudit(t, "prune")
	if !strings.Contains(stderr, "--older-than is required") {
		t.Errorf("unexpected stderr: %s", stderr)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"30d", 30 * 24 * time.Hour, false},
		{"72h", 72 * time.Hour, false},
		{"2w", 14 * 24 * time.Hour, false},
		{"xd", 0, true},
		{"-1h", 0, true},
		{"0d", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := parseDuration(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseDuration(%q) = (%v, %v)", tt.in, got, err)
		}
	}
}
