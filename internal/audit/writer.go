package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	auditFileMode = 0644
	auditDirMode  = 0755
)

// Decision labels for execution-gate events.
const (
	DecisionAllowed          = "allowed"
	DecisionDenied           = "denied"
	DecisionOperatorsBlocked = "operators_blocked"
	DecisionApprovalPending  = "approval_pending"
	DecisionInvalid          = "invalid"
	DecisionFailed           = "failed"
)

// Event is one audit record written as a single JSON line. Every command
// that reaches the execution gate produces exactly one event, whatever the
// outcome.
type Event struct {
	Time     time.Time `json:"time"`
	Source   string    `json:"source"` // "cli" or "agent"
	Command  string    `json:"command"`
	Decision string    `json:"decision"`
	Binary   string    `json:"binary,omitempty"` // the denied binary, when applicable
	Detail   string    `json:"detail,omitempty"`
}

// Writer appends audit events to <workspace>/state/audit.jsonl.
type Writer struct {
	path string
	mu   sync.Mutex
}

// NewWriter creates an append-only audit writer rooted at workspace state.
func NewWriter(workspace string) *Writer {
	return &Writer{
		path: filepath.Join(workspace, "state", "audit.jsonl"),
	}
}

// Append writes one event as one JSONL line. A zero Time is stamped with the
// current time.
func (w *Writer) Append(event Event) error {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(w.path), auditDirMode); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, auditFileMode)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer file.Close()

	encoded, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	encoded = append(encoded, '\n')

	if _, err := file.Write(encoded); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}
