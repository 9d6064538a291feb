package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer l.Close()

	ts := time.Date(2026, 2, 19, 10, 30, 0, 0, time.UTC)

	l.Log(Entry{
		Timestamp: ts,
		Action:    ActionSecretRead,
		Service:   "com.keyfob.test",
		Account:   "alice",
	})

	l.Log(Entry{
		Timestamp: ts.Add(time.Hour),
		Action:    ActionSecretAdd,
		Service:   "com.keyfob.test",
		Account:   "bob",
		Actor:     "cli",
	})

	// Read and verify
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	var e1 Entry
	json.Unmarshal([]byte(lines[0]), &e1)
	if e1.Action != ActionSecretRead {
		t.Errorf("expected secret_read, got %v", e1.Action)
	}
	if e1.Service != "com.keyfob.test" {
		t.Errorf("expected com.keyfob.test, got %q", e1.Service)
	}
	if e1.Account != "alice" {
		t.Errorf("expected alice, got %q", e1.Account)
	}

	var e2 Entry
	json.Unmarshal([]byte(lines[1]), &e2)
	if e2.Action != ActionSecretAdd {
		t.Errorf("expected secret_add, got %v", e2.Action)
	}
	if e2.Actor != "cli" {
		t.Errorf("expected cli, got %q", e2.Actor)
	}
	if !e2.Timestamp.Equal(ts.Add(time.Hour)) {
		t.Errorf("timestamp = %v, want %v", e2.Timestamp, ts.Add(time.Hour))
	}
}

func TestLoggerDefaultsTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	l, err := NewLogger(path)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	defer l.Close()

	before := time.Now().UTC()
	l.Log(Entry{Action: ActionSecretDelete, Service: "com.keyfob.test"})

	data, _ := os.ReadFile(path)
	var e Entry
	json.Unmarshal([]byte(strings.TrimSpace(string(data))), &e)
	if e.Timestamp.Before(before.Add(-time.Second)) {
		t.Errorf("timestamp %v not defaulted", e.Timestamp)
	}
}

func TestLoggerAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	l1, _ := NewLogger(path)
	l1.Log(Entry{Action: ActionSecretAdd, Service: "com.keyfob.test"})
	l1.Close()

	l2, _ := NewLogger(path)
	l2.Log(Entry{Action: ActionSecretUpdate, Service: "com.keyfob.test"})
	l2.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines after reopen, got %d", len(lines))
	}
}
