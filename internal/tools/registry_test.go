package tools

import (
	"context"
	"strings"
	"testing"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()

	tool, err := NewListDirTool("")
	if err != nil {
		t.Fatalf("NewListDirTool error: %v", err)
	}
	if err := reg.Register(tool); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if _, ok := reg.Get("list_dir"); !ok {
		t.Error("expected to find registered tool list_dir")
	}
	if _, ok := reg.Get("nonexistent"); ok {
		t.Error("expected Get to fail for unregistered tool")
	}
}

func TestRegistry_DuplicateRegistration(t *testing.T) {
	reg := NewRegistry()

	tool, err := NewListDirTool("")
	if err != nil {
		t.Fatalf("NewListDirTool error: %v", err)
	}
	if err := reg.Register(tool); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := reg.Register(tool); err == nil {
		t.Error("expected error on duplicate registration")
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()

	readTool, err := NewReadFileTool("")
	if err != nil {
		t.Fatalf("NewReadFileTool error: %v", err)
	}
	listTool, err := NewListDirTool("")
	if err != nil {
		t.Fatalf("NewListDirTool error: %v", err)
	}
	if err := reg.Register(readTool); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := reg.Register(listTool); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	names := reg.Names()
	if len(names) != 2 || names[0] != "list_dir" || names[1] != "read_file" {
		t.Errorf("Names() = %v, want sorted [list_dir read_file]", names)
	}
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	reg := NewRegistry()
	if _, err := reg.Execute(context.Background(), "missing", "{}"); err == nil || !strings.Contains(err.Error(), "unknown tool") {
		t.Errorf("expected unknown tool error, got %v", err)
	}
}

func TestRegistry_GetToolInfos(t *testing.T) {
	reg := NewRegistry()

	tool, err := NewListDirTool("")
	if err != nil {
		t.Fatalf("NewListDirTool error: %v", err)
	}
	if err := reg.Register(tool); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	infos, err := reg.GetToolInfos(context.Background())
	if err != nil {
		t.Fatalf("GetToolInfos error: %v", err)
	}
	if len(infos) != 1 || infos[0].Name != "list_dir" {
		t.Errorf("GetToolInfos = %+v, want one entry named list_dir", infos)
	}
}
