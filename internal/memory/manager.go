// Package memory gives the assistant durable notes across sessions: one
// long-lived markdown file for standing context and dated log files for
// day-to-day observations.
package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	memoryDirName = "memory"
	notesFileName = "MEMORY.md"
)

// LogEntry is the content of one dated log file.
type LogEntry struct {
	Date    string
	Path    string
	Content string
}

// Manager reads and writes memory files under <workspace>/memory.
type Manager struct {
	dir       string
	notesFile string
}

// NewManager creates a memory manager rooted at the workspace.
func NewManager(workspace string) *Manager {
	dir := filepath.Join(workspace, memoryDirName)
	return &Manager{
		dir:       dir,
		notesFile: filepath.Join(dir, notesFileName),
	}
}

// Ensure creates the memory directory and an empty notes file if missing.
func (m *Manager) Ensure() error {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return err
	}
	if _, err := os.Stat(m.notesFile); os.IsNotExist(err) {
		if err := os.WriteFile(m.notesFile, []byte(""), 0644); err != nil {
			return err
		}
	}
	return nil
}

// ReadNotes returns the standing notes file.
func (m *Manager) ReadNotes() (string, error) {
	if err := m.Ensure(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(m.notesFile)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteNotes replaces the standing notes file.
func (m *Manager) WriteNotes(content string) error {
	if err := m.Ensure(); err != nil {
		return err
	}
	return os.WriteFile(m.notesFile, []byte(strings.TrimSpace(content)), 0644)
}

// AppendLog adds a timestamped line to today's log file and returns its
// path.
func (m *Manager) AppendLog(entry string) (string, error) {
	return m.AppendLogAt(time.Now(), entry)
}

// AppendLogAt is AppendLog with an explicit timestamp.
func (m *Manager) AppendLogAt(ts time.Time, entry string) (string, error) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return "", fmt.Errorf("entry is required")
	}
	if err := m.Ensure(); err != nil {
		return "", err
	}

	path := filepath.Join(m.dir, ts.Format("2006-01-02")+".md")
	line := fmt.Sprintf("- [%s] %s\n", ts.Format("15:04:05"), entry)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return "", err
	}
	return path, nil
}

// ReadLog returns the log file for a YYYY-MM-DD date.
func (m *Manager) ReadLog(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return "", fmt.Errorf("date is required")
	}
	data, err := os.ReadFile(filepath.Join(m.dir, date+".md"))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// RecentLogs returns up to limit of the newest non-empty log files in
// chronological order.
func (m *Manager) RecentLogs(limit int) ([]LogEntry, error) {
	if limit <= 0 {
		limit = 3
	}
	if err := m.Ensure(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, err
	}

	type logFile struct {
		date string
		path string
	}
	var logs []logFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == notesFileName || !strings.HasSuffix(name, ".md") {
			continue
		}
		date := strings.TrimSuffix(name, ".md")
		if _, err := time.Parse("2006-01-02", date); err != nil {
			continue
		}
		logs = append(logs, logFile{date: date, path: filepath.Join(m.dir, name)})
	}

	sort.Slice(logs, func(i, j int) bool { return logs[i].date > logs[j].date })
	if len(logs) > limit {
		logs = logs[:limit]
	}
	sort.Slice(logs, func(i, j int) bool { return logs[i].date < logs[j].date })

	out := make([]LogEntry, 0, len(logs))
	for _, l := range logs {
		data, err := os.ReadFile(l.path)
		if err != nil {
			return nil, err
		}
		content := strings.TrimSpace(string(data))
		if content == "" {
			continue
		}
		out = append(out, LogEntry{Date: l.date, Path: l.path, Content: content})
	}
	return out, nil
}
