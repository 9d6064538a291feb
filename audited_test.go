package keyfob

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/avwilde/keyfob/internal/audit"
	"github.com/avwilde/keyfob/internal/secitem"
)

func setupAuditedStore(t *testing.T) (*AuditedStore, string) {
	t.Helper()
	auditPath := filepath.Join(t.TempDir(), "audit.log")

	auditLog, err := audit.NewLogger(auditPath)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	t.Cleanup(func() { auditLog.Close() })

	inner := NewWithConn(secitem.NewMemConn())
	return NewAuditedStore(inner, auditLog, "cli"), auditPath
}

func readAuditEntries(t *testing.T, path string) []audit.Entry {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	entries := make([]audit.Entry, 0, len(lines))
	for _, line := range lines {
		if line == "" {
			continue
		}
		var e audit.Entry
		json.Unmarshal([]byte(line), &e)
		entries = append(entries, e)
	}
	return entries
}

func TestAuditedStoreAddLogs(t *testing.T) {
	store, auditPath := setupAuditedStore(t)
	item := Item{Service: "com.keyfob.test", Account: "alice"}

	store.Add([]byte("value"), item, "")

	entries := readAuditEntries(t, auditPath)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Action != audit.ActionSecretAdd {
		t.Errorf("expected secret_add, got %v", entries[0].Action)
	}
	if entries[0].Service != "com.keyfob.test" {
		t.Errorf("expected com.keyfob.test, got %q", entries[0].Service)
	}
	if entries[0].Account != "alice" {
		t.Errorf("expected alice, got %q", entries[0].Account)
	}
	if entries[0].Actor != "cli" {
		t.Errorf("expected cli, got %q", entries[0].Actor)
	}
}

func TestAuditedStoreRetrieveLogs(t *testing.T) {
	store, auditPath := setupAuditedStore(t)
	item := Item{Service: "com.keyfob.test", Account: "bob"}

	store.Add([]byte("val"), item, "")
	store.Retrieve(item)

	entries := readAuditEntries(t, auditPath)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Action != audit.ActionSecretRead {
		t.Errorf("expected secret_read, got %v", entries[1].Action)
	}
}

func TestAuditedStoreDeleteLogs(t *testing.T) {
	store, auditPath := setupAuditedStore(t)
	item := Item{Service: "com.keyfob.test", Account: "carol"}

	store.Add([]byte("val"), item, "")
	store.Delete(item)

	entries := readAuditEntries(t, auditPath)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[1].Action != audit.ActionSecretDelete {
		t.Errorf("expected secret_delete, got %v", entries[1].Action)
	}
}

func TestAuditedStoreFailureNotLogged(t *testing.T) {
	store, auditPath := setupAuditedStore(t)

	_, err := store.Retrieve(Item{Service: "com.keyfob.test", Account: "missing"})
	if err == nil {
		t.Fatal("expected error")
	}

	data, _ := os.ReadFile(auditPath)
	if strings.TrimSpace(string(data)) != "" {
		t.Errorf("failed retrieve was audited: %s", data)
	}
}

func TestAuditedStorePreservesErrorKinds(t *testing.T) {
	store, _ := setupAuditedStore(t)
	item := Item{Service: "com.keyfob.test", Account: "dup"}

	store.Add([]byte("x"), item, "")
	if err := store.Add([]byte("y"), item, ""); !errors.Is(err, ErrDuplicateItem) {
		t.Errorf("Add err = %v, want ErrDuplicateItem", err)
	}
	if err := store.Update([]byte("x"), Item{Service: "com.keyfob.test", Account: "none"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update err = %v, want ErrNotFound", err)
	}
}

func TestAuditedStoreUpsert(t *testing.T) {
	store, auditPath := setupAuditedStore(t)
	item := Item{Service: "com.keyfob.test", Account: "upsert"}

	if err := store.Upsert([]byte("v1"), item); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	entries := readAuditEntries(t, auditPath)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Action != audit.ActionSecretUpdate {
		t.Errorf("expected secret_update, got %v", entries[0].Action)
	}
}
