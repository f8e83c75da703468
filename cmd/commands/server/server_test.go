package server

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"noracloud/servicenextcloud/internal/app"
	"noracloud/servicenextcloud/internal/config"
	"noracloud/servicenextcloud/internal/database"
	"noracloud/servicenextcloud/internal/domain"
	"noracloud/servicenextcloud/internal/nextcloud"
	"noracloud/servicenextcloud/internal/registry"
)

type fakeChecker struct {
	connOK, authOK bool
	err            error
}

func (f *fakeChecker) TestConnection(context.Context) (bool, error) { return f.connOK, f.err }

func (f *fakeChecker) TestAuthentication(context.Context) (bool, error) { return f.authOK, nil }

// setupTestEnv points the database and config at temp files and replaces the
// nextcloud client with checkers keyed by server URL.
func setupTestEnv(t *testing.T, checkers map[string]*fakeChecker) {
	t.Helper()
	dir := t.TempDir()
	database.SetPath(filepath.Join(dir, "servicenextcloud.db"))
	config.SetPath(filepath.Join(dir, "config.json"))
	app.SetClientFactory(func(url, _, _ string) registry.Checker {
		if c, ok := checkers[url]; ok {
			return c
		}
		return &fakeChecker{}
	})
	t.Cleanup(func() {
		database.ResetPath()
		config.ResetPath()
		app.ResetClientFactory()
	})
}

// execServer runs "server <args...>" and returns stdout and stderr.
func execServer(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func createServer(t *testing.T, name, url string) {
	t.Helper()
	_, stderr := execServer(t, "create",
		"--name", name, "--url", url, "--username", "admin", "--password", "secret")
	if stderr != "" {
		t.Fatalf("create %s: unexpected stderr: %s", name, stderr)
	}
}

func assertContainsAll(t *testing.T, got, label string, want []string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("%s missing %q:\n%s", label, w, got)
		}
	}
}

func TestCreateAndList(t *testing.T) {
	setupTestEnv(t, nil)

	stdout, stderr := execServer(t, "create",
		"--name", "fra1", "--url", "https://cloud.example.com", "--username", "admin", "--password", "secret")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	assertContainsAll(t, stdout, "create stdout", []string{`"fra1"`, "ID: 1"})

	stdout, _ = execServer(t, "list")
	assertContainsAll(t, stdout, "list stdout", []string{
		"ID", "NAME", "URL", "STATUS", "fra1", "https://cloud.example.com", "active",
	})
}

func TestList_Empty(t *testing.T) {
	setupTestEnv(t, nil)

	stdout, _ := execServer(t, "list")
	if !strings.Contains(stdout, "No servers found.") {
		t.Errorf("expected empty message, got: %s", stdout)
	}
}

func TestList_JSON(t *testing.T) {
	setupTestEnv(t, nil)
	createServer(t, "fra1", "https://a.example.com")
	createServer(t, "fra2", "https://b.example.com")

	stdout, _ := execServer(t, "list", "-o", "json")

	var got []domain.ServerSummary
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("failed to parse JSON output: %v\n%s", err, stdout)
	}
	if len(got) != 2 || got[0].Name != "fra1" || got[1].Name != "fra2" {
		t.Errorf("unexpected servers: %+v", got)
	}
}

func TestCreate_MissingFlagsNonInteractive(t *testing.T) {
	setupTestEnv(t, nil)

	_, stderr := execServer(t, "create", "--name", "fra1")
	if !strings.Contains(stderr, "required in non-interactive mode") {
		t.Errorf("expected missing flags error, got: %s", stderr)
	}
}

func TestCreate_InvalidURL(t *testing.T) {
	setupTestEnv(t, nil)

	_, stderr := execServer(t, "create",
		"--name", "fra1", "--url", "cloud.example.com", "--username", "admin", "--password", "x")
	if !strings.Contains(stderr, "url") {
		t.Errorf("expected url validation error, got: %s", stderr)
	}
}

func TestShow_HidesPassword(t *testing.T) {
	setupTestEnv(t, nil)
	createServer(t, "fra1", "https://cloud.example.com")

	stdout, _ := execServer(t, "show", "--id", "1")
	assertContainsAll(t, stdout, "show stdout", []string{"fra1", "https://cloud.example.com", "admin", "active"})
	if strings.Contains(stdout, "secret") {
		t.Errorf("password printed: %s", stdout)
	}

	stdout, _ = execServer(t, "show", "--id", "1", "-o", "json")
	var got domain.ServerConfig
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("failed to parse JSON output: %v\n%s", err, stdout)
	}
	if got.Password != "" {
		t.Errorf("password in JSON output: %q", got.Password)
	}
}

func TestShow_NotFound(t *testing.T) {
	setupTestEnv(t, nil)

	_, stderr := execServer(t, "show", "--id", "42")
	if !strings.Contains(stderr, "not found") {
		t.Errorf("expected not found error, got: %s", stderr)
	}
}

func TestUpdate(t *testing.T) {
	setupTestEnv(t, nil)
	createServer(t, "fra1", "https://cloud.example.com")

	stdout, stderr := execServer(t, "update", "--id", "1", "--name", "fra1-old", "--active=false")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, `"fra1-old"`) {
		t.Errorf("expected confirmation, got: %s", stdout)
	}

	stdout, _ = execServer(t, "list")
	assertContainsAll(t, stdout, "list stdout", []string{"fra1-old", "inactive"})
}

func TestUpdate_NothingToUpdate(t *testing.T) {
	setupTestEnv(t, nil)
	createServer(t, "fra1", "https://cloud.example.com")

	_, stderr := execServer(t, "update", "--id", "1")
	if !strings.Contains(stderr, "nothing to update") {
		t.Errorf("expected nothing to update error, got: %s", stderr)
	}
}

func TestDeleteAndPurge(t *testing.T) {
	setupTestEnv(t, nil)
	createServer(t, "fra1", "https://cloud.example.com")

	stdout, stderr := execServer(t, "delete", "--id", "1", "--yes")
	if stderr != "" {
		t.Fatalf("unexpected stderr: %s", stderr)
	}
	if !strings.Contains(stdout, "deleted successfully") {
		t.Errorf("expected success message, got: %s", stdout)
	}

	stdout, _ = execServer(t, "list")
	if !strings.Contains(stdout, "No servers found.") {
		t.Errorf("deleted server still listed: %s", stdout)
	}

	stdout, _ = execServer(t, "purge")
	if !strings.Contains(stdout, "Purged 1 server(s).") {
		t.Errorf("unexpected purge output: %s", stdout)
	}
}

func TestDelete_NotFound(t *testing.T) {
	setupTestEnv(t, nil)

	_, stderr := execServer(t, "delete", "--id", "9", "--yes")
	if !strings.Contains(stderr, "Error:") {
		t.Errorf("expected error, got: %s", stderr)
	}
}

func TestTest_All(t *testing.T) {
	setupTestEnv(t, map[string]*fakeChecker{
		"https://a.example.com": {connOK: true, authOK: true},
		"https://b.example.com": {connOK: true, authOK: false},
		"https://c.example.com": {err: &nextcloud.TransportError{Method: "GET", URL: "https://c.example.com", Err: context.DeadlineExceeded}},
	})
	createServer(t, "a", "https://a.example.com")
	createServer(t, "b", "https://b.example.com")
	createServer(t, "c", "https://c.example.com")

	stdout, _ := execServer(t, "test", "--all", "-o", "json")

	var got []TestResult
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("failed to parse JSON output: %v\n%s", err, stdout)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	if !got[0].OK || got[0].Name != "a" {
		t.Errorf("a: %+v", got[0])
	}
	if got[1].OK || got[1].Error != "" {
		t.Errorf("b: %+v", got[1])
	}
	if got[2].OK || !strings.Contains(got[2].Error, "deadline exceeded") {
		t.Errorf("c: %+v", got[2])
	}
}

func TestTest_SingleTable(t *testing.T) {
	setupTestEnv(t, map[string]*fakeChecker{
		"https://a.example.com": {connOK: true, authOK: true},
	})
	createServer(t, "a", "https://a.example.com")

	stdout, _ := execServer(t, "test", "--id", "1")
	assertContainsAll(t, stdout, "test stdout", []string{"RESULT", "a", "ok"})
}

func TestTest_RequiresTarget(t *testing.T) {
	setupTestEnv(t, nil)

	_, stderr := execServer(t, "test")
	if !strings.Contains(stderr, "at least one of the flags") {
		t.Errorf("expected flag group error, got: %s", stderr)
	}
}
