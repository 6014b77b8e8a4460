package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestMemoryTools_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	writeTool, err := NewWriteMemoryTool(tmpDir)
	if err != nil {
		t.Fatalf("NewWriteMemoryTool error: %v", err)
	}
	readTool, err := NewReadMemoryTool(tmpDir)
	if err != nil {
		t.Fatalf("NewReadMemoryTool error: %v", err)
	}

	ctx := context.Background()
	if _, err := writeTool.InvokableRun(ctx, `{"content": "deploys happen from ci only"}`); err != nil {
		t.Fatalf("write InvokableRun error: %v", err)
	}

	result, err := readTool.InvokableRun(ctx, `{}`)
	if err != nil {
		t.Fatalf("read InvokableRun error: %v", err)
	}

	var out ReadMemoryOutput
	if err := json.Unmarshal([]byte(result), &out); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if out.Content != "deploys happen from ci only" {
		t.Errorf("Content = %q", out.Content)
	}
}

func TestAppendLogTool(t *testing.T) {
	tmpDir := t.TempDir()

	tool, err := NewAppendLogTool(tmpDir)
	if err != nil {
		t.Fatalf("NewAppendLogTool error: %v", err)
	}

	result, err := tool.InvokableRun(context.Background(), `{"entry": "migrated the build to go 1.25"}`)
	if err != nil {
		t.Fatalf("InvokableRun error: %v", err)
	}

	var out AppendLogOutput
	if err := json.Unmarshal([]byte(result), &out); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if !strings.Contains(out.LogPath, "memory") || !strings.HasSuffix(out.LogPath, ".md") {
		t.Errorf("LogPath = %q, want a dated markdown file under memory/", out.LogPath)
	}
}
