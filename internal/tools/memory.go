package tools

import (
	"context"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"github.com/viseworks/vise/internal/memory"
)

type ReadMemoryInput struct{}

type ReadMemoryOutput struct {
	Content string `json:"content"`
}

type readMemoryToolImpl struct {
	manager *memory.Manager
}

func (t *readMemoryToolImpl) execute(ctx context.Context, input *ReadMemoryInput) (*ReadMemoryOutput, error) {
	content, err := t.manager.ReadNotes()
	if err != nil {
		return nil, err
	}
	return &ReadMemoryOutput{Content: content}, nil
}

func NewReadMemoryTool(workspace string) (tool.InvokableTool, error) {
	impl := &readMemoryToolImpl{manager: memory.NewManager(workspace)}
	return utils.InferTool("read_memory", "Read standing notes from memory/MEMORY.md", impl.execute)
}

type WriteMemoryInput struct {
	Content string `json:"content" jsonschema:"required,description=Content to store as standing notes"`
}

type writeMemoryToolImpl struct {
	manager *memory.Manager
}

func (t *writeMemoryToolImpl) execute(ctx context.Context, input *WriteMemoryInput) (string, error) {
	if err := t.manager.WriteNotes(input.Content); err != nil {
		return "", err
	}
	return "Memory updated successfully", nil
}

func NewWriteMemoryTool(workspace string) (tool.InvokableTool, error) {
	impl := &writeMemoryToolImpl{manager: memory.NewManager(workspace)}
	return utils.InferTool("write_memory", "Write standing notes to memory/MEMORY.md", impl.execute)
}

type AppendLogInput struct {
	Entry string `json:"entry" jsonschema:"required,description=Log entry content to append"`
}

type AppendLogOutput struct {
	LogPath string `json:"log_path"`
}

type appendLogToolImpl struct {
	manager *memory.Manager
}

func (t *appendLogToolImpl) execute(ctx context.Context, input *AppendLogInput) (*AppendLogOutput, error) {
	path, err := t.manager.AppendLog(input.Entry)
	if err != nil {
		return nil, err
	}
	return &AppendLogOutput{LogPath: path}, nil
}

func NewAppendLogTool(workspace string) (tool.InvokableTool, error) {
	impl := &appendLogToolImpl{manager: memory.NewManager(workspace)}
	return utils.InferTool("append_log", "Append a dated work-log entry under memory/YYYY-MM-DD.md", impl.execute)
}
