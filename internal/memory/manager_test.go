package memory

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestReadWriteNotes(t *testing.T) {
	mgr := NewManager(t.TempDir())
	if err := mgr.WriteNotes("project uses makefiles, not bazel"); err != nil {
		t.Fatalf("WriteNotes error: %v", err)
	}

	got, err := mgr.ReadNotes()
	if err != nil {
		t.Fatalf("ReadNotes error: %v", err)
	}
	if got != "project uses makefiles, not bazel" {
		t.Fatalf("expected notes content, got %q", got)
	}
}

func TestReadNotesEmptyWorkspace(t *testing.T) {
	mgr := NewManager(t.TempDir())
	got, err := mgr.ReadNotes()
	if err != nil {
		t.Fatalf("ReadNotes error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty notes, got %q", got)
	}
}

func TestAppendLogAt(t *testing.T) {
	mgr := NewManager(t.TempDir())
	now := time.Date(2026, 2, 11, 10, 30, 0, 0, time.UTC)

	logPath, err := mgr.AppendLogAt(now, "fixed the flaky integration test")
	if err != nil {
		t.Fatalf("AppendLogAt error: %v", err)
	}
	if !strings.HasSuffix(logPath, filepath.Join("memory", "2026-02-11.md")) {
		t.Fatalf("unexpected log path: %s", logPath)
	}

	content, err := mgr.ReadLog("2026-02-11")
	if err != nil {
		t.Fatalf("ReadLog error: %v", err)
	}
	if !strings.Contains(content, "fixed the flaky integration test") {
		t.Fatalf("expected log content, got: %s", content)
	}
}

func TestAppendLogRequiresEntry(t *testing.T) {
	mgr := NewManager(t.TempDir())
	if _, err := mgr.AppendLog("   "); err == nil {
		t.Fatal("expected error for blank entry")
	}
}

func TestRecentLogs(t *testing.T) {
	mgr := NewManager(t.TempDir())
	dates := []string{"2026-02-08", "2026-02-09", "2026-02-10", "2026-02-11"}
	for i, d := range dates {
		ts, _ := time.Parse("2006-01-02", d)
		if _, err := mgr.AppendLogAt(ts, "entry-"+d); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, err := mgr.RecentLogs(3)
	if err != nil {
		t.Fatalf("RecentLogs error: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Date != "2026-02-09" || entries[2].Date != "2026-02-11" {
		t.Fatalf("unexpected dates order: %#v", entries)
	}
}
