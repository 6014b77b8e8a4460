// Package session persists conversation history as JSONL files under the
// workspace so a chat can be resumed across process restarts.
package session

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// maxLineBytes bounds a single persisted message. Model replies can run
// well past bufio.Scanner's default token size.
const maxLineBytes = 4 * 1024 * 1024

// Message is a single turn in a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is an in-memory conversation backed by a JSONL file.
type Session struct {
	Key      string
	Messages []*Message
	mu       sync.RWMutex
}

// AddMessage appends a turn to the session.
func (s *Session) AddMessage(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = append(s.Messages, &Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// History returns up to limit of the most recent messages. A limit of
// zero or less returns everything.
func (s *Session) History(limit int) []*Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.Messages) {
		limit = len(s.Messages)
	}
	start := len(s.Messages) - limit

	result := make([]*Message, limit)
	copy(result, s.Messages[start:])
	return result
}

// Len reports the number of messages in the session.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.Messages)
}

func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Messages = nil
}

// Manager loads and saves sessions under <workspace>/sessions.
type Manager struct {
	dir      string
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewManager creates a session manager rooted at the workspace.
func NewManager(workspace string) *Manager {
	dir := filepath.Join(workspace, "sessions")
	os.MkdirAll(dir, 0755)
	return &Manager{
		dir:      dir,
		sessions: make(map[string]*Session),
	}
}

// GetOrCreate returns the session for key, loading it from disk on first
// access.
func (m *Manager) GetOrCreate(key string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess, ok := m.sessions[key]; ok {
		return sess
	}

	sess := &Session{Key: key}
	m.loadFromDisk(sess)
	m.sessions[key] = sess
	return sess
}

// Save writes the session to its JSONL file. Empty sessions are skipped.
func (m *Manager) Save(sess *Session) error {
	sess.mu.RLock()
	defer sess.mu.RUnlock()

	if len(sess.Messages) == 0 {
		return nil
	}

	f, err := os.OpenFile(m.sessionPath(sess.Key), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, msg := range sess.Messages {
		if err := enc.Encode(msg); err != nil {
			return err
		}
	}
	return nil
}

// Reset drops the session's history in memory and on disk.
func (m *Manager) Reset(key string) error {
	m.mu.Lock()
	if sess, ok := m.sessions[key]; ok {
		sess.clear()
	}
	m.mu.Unlock()

	err := os.Remove(m.sessionPath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (m *Manager) loadFromDisk(sess *Session) {
	f, err := os.Open(m.sessionPath(sess.Key))
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		var msg Message
		if err := json.Unmarshal(scanner.Bytes(), &msg); err == nil {
			sess.Messages = append(sess.Messages, &msg)
		}
	}
}

func (m *Manager) sessionPath(key string) string {
	safe := strings.NewReplacer(":", "_", "/", "_", "\\", "_").Replace(key)
	return filepath.Join(m.dir, safe+".jsonl")
}
