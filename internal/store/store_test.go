package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"noracloud/servicenextcloud/internal/domain"

	"github.com/google/go-cmp/cmp"
)

var testTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// tempStore opens an installed store in a temporary directory.
func tempStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenAt(filepath.Join(t.TempDir(), "servicenextcloud.db"))
	if err != nil {
		t.Fatalf("OpenAt failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	if err := s.Install(context.Background()); err != nil {
		t.Fatalf("Install failed: %v", err)
	}
	return s
}

// seedServer inserts an active server and returns it.
func seedServer(t *testing.T, s *Store, name string) *domain.ServerConfig {
	t.Helper()
	srv := &domain.ServerConfig{
		Name:      name,
		URL:       "https://" + name + ".example.com",
		Username:  "admin",
		Password:  "secret",
		Config:    []byte(`{"quota":"5GB"}`),
		Active:    true,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
	if err := s.InsertServer(context.Background(), srv); err != nil {
		t.Fatalf("InsertServer failed: %v", err)
	}
	return srv
}

func TestInstall_Idempotent(t *testing.T) {
	s := tempStore(t)
	if err := s.Install(context.Background()); err != nil {
		t.Fatalf("second Install failed: %v", err)
	}
}

func TestUninstall_DropsTables(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	seedServer(t, s, "s1")

	if err := s.Uninstall(ctx); err != nil {
		t.Fatalf("Uninstall failed: %v", err)
	}
	if _, err := s.ListServers(ctx); err == nil {
		t.Fatal("expected ListServers to fail after Uninstall")
	}

	// Reinstalling starts from an empty schema.
	if err := s.Install(ctx); err != nil {
		t.Fatalf("Install after Uninstall failed: %v", err)
	}
	servers, err := s.ListServers(ctx)
	if err != nil {
		t.Fatalf("ListServers failed: %v", err)
	}
	if len(servers) != 0 {
		t.Errorf("expected no servers after reinstall, got %d", len(servers))
	}
}

func TestUpdate_RecordsVersion(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	if v, err := s.Version(ctx); err != nil || v != "" {
		t.Fatalf("Version = (%q, %v), want empty", v, err)
	}
	if err := s.Update(ctx, Manifest{Version: "1.2.0"}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := s.Update(ctx, Manifest{Version: "1.3.0"}); err != nil {
		t.Fatalf("second Update failed: %v", err)
	}
	v, err := s.Version(ctx)
	if err != nil {
		t.Fatalf("Version failed: %v", err)
	}
	if v != "1.3.0" {
		t.Errorf("Version = %q, want 1.3.0", v)
	}
}

// --- servers ---

func TestServers_InsertAndGet(t *testing.T) {
	s := tempStore(t)
	want := seedServer(t, s, "s1")
	if want.ID == 0 {
		t.Fatal("expected InsertServer to assign an ID")
	}

	got, err := s.GetServer(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("GetServer failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("server mismatch (-want +got):\n%s", diff)
	}
}

func TestServers_ListOrderedByID(t *testing.T) {
	s := tempStore(t)
	a := seedServer(t, s, "alpha")
	b := seedServer(t, s, "beta")

	servers, err := s.ListServers(context.Background())
	if err != nil {
		t.Fatalf("ListServers failed: %v", err)
	}
	if len(servers) != 2 || servers[0].ID != a.ID || servers[1].ID != b.ID {
		t.Fatalf("unexpected order: %+v", servers)
	}
}

func TestServers_TrashHidesServer(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	srv := seedServer(t, s, "s1")

	if err := s.TrashServer(ctx, srv.ID, testTime.Add(time.Hour)); err != nil {
		t.Fatalf("TrashServer failed: %v", err)
	}

	if _, err := s.GetServer(ctx, srv.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetServer after trash: expected ErrNotFound, got %v", err)
	}
	servers, _ := s.ListServers(ctx)
	if len(servers) != 0 {
		t.Errorf("expected trashed server to be hidden, got %d servers", len(servers))
	}
	if err := s.TrashServer(ctx, srv.ID, testTime); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second TrashServer: expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateServer(ctx, srv); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("UpdateServer on trashed server: expected ErrNotFound, got %v", err)
	}
}

func TestServers_UpdateMissing(t *testing.T) {
	s := tempStore(t)
	err := s.UpdateServer(context.Background(), &domain.ServerConfig{ID: 99, Name: "x", URL: "https://x"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServers_PurgeCascades(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	keep := seedServer(t, s, "keep")
	gone := seedServer(t, s, "gone")

	for i, serverID := range []int64{keep.ID, gone.ID} {
		svc := &domain.ServiceInstance{
			ClientID: 1, OrderID: int64(100 + i), ServerID: serverID,
			CreatedAt: testTime, UpdatedAt: testTime,
		}
		if err := s.InsertService(ctx, svc); err != nil {
			t.Fatalf("InsertService failed: %v", err)
		}
	}
	if err := s.SaveProduct(ctx, domain.ProductConfig{ProductID: 7, ServerID: gone.ID}); err != nil {
		t.Fatalf("SaveProduct failed: %v", err)
	}

	if err := s.TrashServer(ctx, gone.ID, testTime); err != nil {
		t.Fatalf("TrashServer failed: %v", err)
	}
	n, err := s.PurgeServers(ctx)
	if err != nil {
		t.Fatalf("PurgeServers failed: %v", err)
	}
	if n != 1 {
		t.Errorf("purged %d servers, want 1", n)
	}

	if _, err := s.GetService(ctx, 100); err != nil {
		t.Errorf("service on kept server should survive: %v", err)
	}
	if _, err := s.GetService(ctx, 101); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("service on purged server: expected ErrNotFound, got %v", err)
	}
	if _, err := s.Product(ctx, 7); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("product bound to purged server: expected ErrNotFound, got %v", err)
	}
}

// --- services ---

func TestServices_Lifecycle(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	srv := seedServer(t, s, "s1")

	svc := &domain.ServiceInstance{
		ClientID: 3, OrderID: 42, ServerID: srv.ID,
		CreatedAt: testTime, UpdatedAt: testTime,
	}
	if err := s.InsertService(ctx, svc); err != nil {
		t.Fatalf("InsertService failed: %v", err)
	}

	svc.Active = true
	svc.Hostname = "s1.example.com"
	svc.UpdatedAt = testTime.Add(time.Minute)
	if err := s.UpdateService(ctx, svc); err != nil {
		t.Fatalf("UpdateService failed: %v", err)
	}

	got, err := s.GetService(ctx, 42)
	if err != nil {
		t.Fatalf("GetService failed: %v", err)
	}
	want := *svc
	want.Config = []byte("{}")
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("service mismatch (-want +got):\n%s", diff)
	}

	if err := s.DeleteService(ctx, 42); err != nil {
		t.Fatalf("DeleteService failed: %v", err)
	}
	if err := s.DeleteService(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second DeleteService: expected ErrNotFound, got %v", err)
	}
}

func TestServices_DuplicateOrderConflicts(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	srv := seedServer(t, s, "s1")

	first := &domain.ServiceInstance{ClientID: 1, OrderID: 5, ServerID: srv.ID, CreatedAt: testTime, UpdatedAt: testTime}
	if err := s.InsertService(ctx, first); err != nil {
		t.Fatalf("InsertService failed: %v", err)
	}
	second := &domain.ServiceInstance{ClientID: 1, OrderID: 5, ServerID: srv.ID, CreatedAt: testTime, UpdatedAt: testTime}
	if err := s.InsertService(ctx, second); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestServices_UnknownServerRejected(t *testing.T) {
	s := tempStore(t)
	svc := &domain.ServiceInstance{ClientID: 1, OrderID: 5, ServerID: 404, CreatedAt: testTime, UpdatedAt: testTime}
	if err := s.InsertService(context.Background(), svc); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown server, got %v", err)
	}
}

// --- catalog ---

func TestCatalog_ProductUpsert(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()
	a := seedServer(t, s, "a")
	b := seedServer(t, s, "b")

	if _, err := s.Product(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SaveProduct(ctx, domain.ProductConfig{ProductID: 1, ServerID: a.ID}); err != nil {
		t.Fatalf("SaveProduct failed: %v", err)
	}
	if err := s.SaveProduct(ctx, domain.ProductConfig{ProductID: 1, ServerID: b.ID, Config: []byte(`{"quota":"1GB"}`)}); err != nil {
		t.Fatalf("SaveProduct update failed: %v", err)
	}

	got, err := s.Product(ctx, 1)
	if err != nil {
		t.Fatalf("Product failed: %v", err)
	}
	want := &domain.ProductConfig{ProductID: 1, ServerID: b.ID, Config: []byte(`{"quota":"1GB"}`)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("product mismatch (-want +got):\n%s", diff)
	}
}

func TestCatalog_ProductUnknownServer(t *testing.T) {
	s := tempStore(t)
	err := s.SaveProduct(context.Background(), domain.ProductConfig{ProductID: 1, ServerID: 77})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCatalog_Client(t *testing.T) {
	s := tempStore(t)
	ctx := context.Background()

	want := domain.Client{ID: 9, Email: "jane@example.com", Name: "Jane"}
	if err := s.SaveClient(ctx, want); err != nil {
		t.Fatalf("SaveClient failed: %v", err)
	}
	got, err := s.Client(ctx, 9)
	if err != nil {
		t.Fatalf("Client failed: %v", err)
	}
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Errorf("client mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Client(ctx, 10); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
