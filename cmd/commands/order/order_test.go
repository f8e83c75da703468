package order

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
	"noracloud/servicenextcloud/internal/registry"
)

type fakeChecker struct{ ok bool }

func (f *fakeChecker) TestConnection(context.Context) (bool, error) { return f.ok, nil }

func (f *fakeChecker) TestAuthentication(context.Context) (bool, error) { return f.ok, nil }

// setupTestEnv prepares a temp database holding server 1, product 3 bound to
// it and client 7.
func setupTestEnv(t *testing.T, checker *fakeChecker) {
	t.Helper()
	dir := t.TempDir()
	database.SetPath(filepath.Join(dir, "servicenextcloud.db"))
	config.SetPath(filepath.Join(dir, "config.json"))
	app.SetClientFactory(func(string, string, string) registry.Checker { return checker })
	t.Cleanup(func() {
		database.ResetPath()
		config.ResetPath()
		app.ResetClientFactory()
	})

	ctx := context.Background()
	a, err := app.Open(ctx, app.Options{Quiet: true})
	if err != nil {
		t.Fatalf("app.Open failed: %v", err)
	}
	defer a.Close()

	srv, err := a.Registry.Create(ctx, domain.CreateServerOpts{
		Name: "fra1", URL: "https://cloud.example.com:8443", Username: "admin", Password: "pw",
	})
	if err != nil {
		t.Fatalf("Create server failed: %v", err)
	}
	if err := a.Store.SaveProduct(ctx, domain.ProductConfig{ProductID: 3, ServerID: srv.ID}); err != nil {
		t.Fatalf("SaveProduct failed: %v", err)
	}
	if err := a.Store.SaveClient(ctx, domain.Client{ID: 7, Email: "jane@example.com"}); err != nil {
		t.Fatalf("SaveClient failed: %v", err)
	}
}

func execOrder(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	cmd := NewCommand()
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)
	cmd.Execute()
	return outBuf.String(), errBuf.String()
}

func runHook(t *testing.T, name string, extra ...string) (stdout, stderr string) {
	t.Helper()
	args := append([]string{name, "--order", "1001", "--client", "7", "--product", "3"}, extra...)
	return execOrder(t, args...)
}

func TestLifecycle(t *testing.T) {
	setupTestEnv(t, &fakeChecker{ok: true})

	stdout, stderr := runHook(t, "create")
	if stderr != "" {
		t.Fatalf("create: %s", stderr)
	}
	for _, want := range []string{"Order 1001", "Client:", "(not activated)", "inactive"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("create output missing %q:\n%s", want, stdout)
		}
	}

	stdout, stderr = runHook(t, "activate")
	if stderr != "" {
		t.Fatalf("activate: %s", stderr)
	}
	for _, want := range []string{"1001", "cloud.example.com:8443", "active"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("activate output missing %q:\n%s", want, stdout)
		}
	}

	stdout, _ = runHook(t, "suspend", "-o", "json")
	var svc domain.ServiceInstance
	if err := json.Unmarshal([]byte(stdout), &svc); err != nil {
		t.Fatalf("failed to parse JSON output: %v\n%s", err, stdout)
	}
	if svc.Active {
		t.Error("expected suspended service to be inactive")
	}

	stdout, _ = runHook(t, "delete")
	if !strings.Contains(stdout, "Order 1001: delete done.") {
		t.Errorf("unexpected delete output: %s", stdout)
	}

	_, stderr = runHook(t, "show")
	if !strings.Contains(stderr, "not found") {
		t.Errorf("expected not found after delete, got: %s", stderr)
	}
}

func TestActivate_FailedConnection(t *testing.T) {
	setupTestEnv(t, &fakeChecker{ok: false})

	runHook(t, "create")
	_, stderr := runHook(t, "activate")
	if !strings.Contains(stderr, "failed the connection test") {
		t.Errorf("expected connection test error, got: %s", stderr)
	}
}

func TestOrderFlagRequired(t *testing.T) {
	setupTestEnv(t, &fakeChecker{ok: true})

	_, stderr := execOrder(t, "create", "--client", "7")
	if !strings.Contains(stderr, `required flag(s) "order" not set`) {
		t.Errorf("expected required flag error, got: %s", stderr)
	}
}

func TestNewCommand_RegistersEveryHook(t *testing.T) {
	want := []string{"activate", "cancel", "create", "delete", "renew", "show", "suspend", "uncancel", "unsuspend"}
	var got []string
	for _, c := range NewCommand().Commands() {
		got = append(got, c.Name())
		if c.Flags().Lookup("order") == nil {
			t.Errorf("%s has no --order flag", c.Name())
		}
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("subcommands = %v, want %v", got, want)
	}
}

func TestRenewAndCancelKeepService(t *testing.T) {
	setupTestEnv(t, &fakeChecker{ok: true})

	runHook(t, "create")
	for _, name := range []string{"activate", "renew", "cancel", "uncancel"} {
		if _, stderr := runHook(t, name); stderr != "" {
			t.Fatalf("%s: %s", name, stderr)
		}
	}

	stdout, stderr := runHook(t, "show", "-o", "json")
	if stderr != "" {
		t.Fatalf("show: %s", stderr)
	}
	var svc domain.ServiceInstance
	if err := json.Unmarshal([]byte(stdout), &svc); err != nil {
		t.Fatalf("failed to parse JSON output: %v\n%s", err, stdout)
	}
	if svc.OrderID != 1001 || !svc.Active {
		t.Errorf("unexpected service after uncancel: %+v", svc)
	}
}
