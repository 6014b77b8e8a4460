// Package agent runs the tool-calling conversation loop.
package agent

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"github.com/viseworks/vise/internal/config"
	"github.com/viseworks/vise/internal/session"
	"github.com/viseworks/vise/internal/tools"
)

// Loop is the main agent processing loop.
type Loop struct {
	model         model.ChatModel
	tools         *tools.Registry
	sessions      *session.Manager
	context       *ContextBuilder
	config        *config.Config
	maxIterations int
	workspacePath string

	OnToolStart  func(name, args string)
	OnToolFinish func(name, result string, err error)
}

// NewLoop creates a new agent loop.
func NewLoop(cfg *config.Config, chatModel model.ChatModel) (*Loop, error) {
	workspacePath, err := cfg.WorkspacePathChecked()
	if err != nil {
		return nil, err
	}

	return &Loop{
		model:         chatModel,
		tools:         tools.NewRegistry(),
		sessions:      session.NewManager(workspacePath),
		context:       NewContextBuilder(workspacePath),
		config:        cfg,
		maxIterations: cfg.Agent.MaxToolIterations,
		workspacePath: workspacePath,
	}, nil
}

// Tools returns the tool registry.
func (l *Loop) Tools() *tools.Registry {
	return l.tools
}

// WorkspacePath returns the resolved workspace directory.
func (l *Loop) WorkspacePath() string {
	return l.workspacePath
}

// RegisterDefaultTools registers all built-in tools.
func (l *Loop) RegisterDefaultTools(cfg *config.Config) error {
	toolFns := []func() (tool.InvokableTool, error){
		func() (tool.InvokableTool, error) { return tools.NewReadFileTool(l.workspacePath) },
		func() (tool.InvokableTool, error) { return tools.NewWriteFileTool(l.workspacePath) },
		func() (tool.InvokableTool, error) { return tools.NewEditFileTool(l.workspacePath) },
		func() (tool.InvokableTool, error) { return tools.NewAppendFileTool(l.workspacePath) },
		func() (tool.InvokableTool, error) { return tools.NewListDirTool(l.workspacePath) },
		func() (tool.InvokableTool, error) { return tools.NewReadMemoryTool(l.workspacePath) },
		func() (tool.InvokableTool, error) { return tools.NewWriteMemoryTool(l.workspacePath) },
		func() (tool.InvokableTool, error) { return tools.NewAppendLogTool(l.workspacePath) },
		func() (tool.InvokableTool, error) {
			return tools.NewRunCommandTool(cfg.Tools.Exec, l.workspacePath)
		},
	}

	for _, fn := range toolFns {
		t, err := fn()
		if err != nil {
			return err
		}
		if err := l.tools.Register(t); err != nil {
			return err
		}
	}

	slog.Info("registered tools", "count", len(l.tools.Names()), "tools", l.tools.Names())
	return nil
}

func (l *Loop) bindTools(ctx context.Context) error {
	if l.model == nil {
		return nil
	}
	toolInfos, err := l.tools.GetToolInfos(ctx)
	if err != nil {
		return err
	}
	if binder, ok := l.model.(interface {
		BindTools([]*schema.ToolInfo) error
	}); ok {
		return binder.BindTools(toolInfos)
	}
	return nil
}

// Process runs one user turn through the model and its tools, returning the
// assistant's final reply.
func (l *Loop) Process(ctx context.Context, sessionKey, content string) (string, error) {
	if err := l.bindTools(ctx); err != nil {
		return "", err
	}

	sess := l.sessions.GetOrCreate(sessionKey)
	messages := l.context.BuildMessages(sess.History(50), content)

	var finalContent string

	for i := 0; i < l.maxIterations; i++ {
		if l.model == nil {
			finalContent = "No model configured"
			break
		}

		resp, err := l.model.Generate(ctx, messages)
		if err != nil {
			return "", err
		}

		// Capture the newest content even when tool calls follow; some
		// models narrate between calls.
		if resp.Content != "" {
			finalContent = resp.Content
		}

		if len(resp.ToolCalls) == 0 {
			break
		}

		messages = append(messages, resp)
		messages = append(messages, l.runToolCalls(ctx, resp.ToolCalls)...)
	}

	if finalContent == "" {
		finalContent = "Processing complete."
	}

	sess.AddMessage("user", content)
	sess.AddMessage("assistant", finalContent)
	if err := l.sessions.Save(sess); err != nil {
		slog.Warn("failed to save session", "session", sessionKey, "error", err)
	}

	return finalContent, nil
}

// runToolCalls executes the calls concurrently and returns tool messages in
// the original call order.
func (l *Loop) runToolCalls(ctx context.Context, calls []schema.ToolCall) []*schema.Message {
	results := make([]*schema.Message, len(calls))
	var wg sync.WaitGroup

	for i, tc := range calls {
		wg.Add(1)
		go func(i int, tc schema.ToolCall) {
			defer wg.Done()
			start := time.Now()

			if l.OnToolStart != nil {
				l.OnToolStart(tc.Function.Name, tc.Function.Arguments)
			}

			result, err := l.tools.Execute(ctx, tc.Function.Name, tc.Function.Arguments)
			if err != nil {
				result = "Error: " + err.Error()
			}

			switch tc.Function.Name {
			case "write_file", "edit_file", "append_file", "write_memory", "append_log":
				l.context.InvalidateCache()
			}

			slog.Info("tool execution finished",
				"tool", tc.Function.Name,
				"duration_ms", time.Since(start).Milliseconds(),
				"success", err == nil,
			)

			if l.OnToolFinish != nil {
				l.OnToolFinish(tc.Function.Name, result, err)
			}

			results[i] = &schema.Message{
				Role:       schema.Tool,
				Content:    result,
				ToolCallID: tc.ID,
			}
		}(i, tc)
	}

	wg.Wait()
	return results
}

// Reset clears the history of a session.
func (l *Loop) Reset(sessionKey string) error {
	return l.sessions.Reset(sessionKey)
}
