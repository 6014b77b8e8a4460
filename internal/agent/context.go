package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cloudwego/eino/schema"

	"github.com/viseworks/vise/internal/memory"
	"github.com/viseworks/vise/internal/session"
)

// ContextBuilder assembles the model context from the workspace.
type ContextBuilder struct {
	workspacePath string

	mu     sync.Mutex
	cached string
}

// NewContextBuilder creates a context builder.
func NewContextBuilder(workspacePath string) *ContextBuilder {
	return &ContextBuilder{workspacePath: workspacePath}
}

// BuildSystemPrompt assembles the system prompt. The result is cached until
// InvalidateCache is called, since workspace files change only through the
// file tools.
func (c *ContextBuilder) BuildSystemPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != "" {
		return c.cached
	}

	var parts []string
	parts = append(parts, c.coreIdentity())

	if content := c.readWorkspaceFile("VISE.md"); content != "" {
		parts = append(parts, "## Project Instructions\n"+content)
	}

	if mem := c.readWorkspaceFile(filepath.Join("memory", "MEMORY.md")); mem != "" {
		parts = append(parts, "## Standing Notes\n"+mem)
	}

	if logs := c.buildRecentLogsSection(); logs != "" {
		parts = append(parts, logs)
	}

	c.cached = strings.Join(parts, "\n\n")
	return c.cached
}

// InvalidateCache forces the next BuildSystemPrompt to re-read the
// workspace.
func (c *ContextBuilder) InvalidateCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = ""
}

func (c *ContextBuilder) coreIdentity() string {
	return `You are Vise, an engineering assistant running in a terminal.
You have tools for reading and editing files, running shell commands, and keeping notes.
Shell commands pass through a policy gate: chains and substitutions are refused unless configured,
dangerous binaries are denied, and some commands need operator approval. When a command is gated,
relay the gate's instructions instead of working around them.
Be concise and concrete. Prefer showing a diff or a command over describing one.`
}

func (c *ContextBuilder) readWorkspaceFile(name string) string {
	data, err := os.ReadFile(filepath.Join(c.workspacePath, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (c *ContextBuilder) buildRecentLogsSection() string {
	entries, err := memory.NewManager(c.workspacePath).RecentLogs(3)
	if err != nil || len(entries) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Recent Work Log")
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("\n\n### %s\n%s", entry.Date, entry.Content))
	}
	return sb.String()
}

// BuildMessages constructs the full message list for one model call.
func (c *ContextBuilder) BuildMessages(history []*session.Message, current string) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history)+2)

	messages = append(messages, &schema.Message{
		Role:    schema.System,
		Content: c.BuildSystemPrompt(),
	})

	for _, h := range history {
		role := schema.User
		if h.Role == "assistant" {
			role = schema.Assistant
		}
		messages = append(messages, &schema.Message{
			Role:    role,
			Content: h.Content,
		})
	}

	messages = append(messages, &schema.Message{
		Role:    schema.User,
		Content: strings.TrimSpace(current),
	})

	return messages
}
