package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

type execHarness struct {
	cmd    *cobra.Command
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newExecForTest(t *testing.T, stdin string, args ...string) *execHarness {
	t.Helper()
	c := NewExecCmd()
	h := &execHarness{cmd: c, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	c.SetOut(h.out)
	c.SetErr(h.errOut)
	c.SetIn(strings.NewReader(stdin))
	c.SetArgs(args)
	c.SilenceUsage = true
	c.SilenceErrors = true
	return h
}

func TestExec_AllowedCommand(t *testing.T) {
	isolateHome(t)

	h := newExecForTest(t, "", "--yes", "echo", "hi")
	if err := h.cmd.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(h.out.String(), "hi") {
		t.Errorf("stdout = %q, want hi", h.out.String())
	}
}

func TestExec_DeniedBinary(t *testing.T) {
	isolateHome(t)

	h := newExecForTest(t, "", "--yes", "rm", "-rf", "scratch")
	err := h.cmd.Execute()
	if err == nil {
		t.Fatal("expected error for denied binary")
	}
	if !strings.Contains(err.Error(), "not permitted") {
		t.Errorf("error = %v, want deny message", err)
	}
}

func TestExec_OperatorPromptDeclined(t *testing.T) {
	isolateHome(t)

	h := newExecForTest(t, "n\n", "echo a && echo b")
	err := h.cmd.Execute()
	if err == nil {
		t.Fatal("expected error after declining the operator prompt")
	}
	if !strings.Contains(h.out.String(), "[y/N]") {
		t.Errorf("expected a prompt, output: %s", h.out.String())
	}
}

func TestExec_OperatorPromptAccepted(t *testing.T) {
	isolateHome(t)

	// First y permits operators, second y approves the command.
	h := newExecForTest(t, "y\ny\n", "echo a && echo b")
	if err := h.cmd.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(h.out.String(), "a") || !strings.Contains(h.out.String(), "b") {
		t.Errorf("stdout = %q, want both echoes", h.out.String())
	}
}

func TestExec_NonZeroExit(t *testing.T) {
	isolateHome(t)

	h := newExecForTest(t, "", "--yes", "cat", "/definitely/missing/vise-test-file")
	err := h.cmd.Execute()
	if err == nil {
		t.Fatal("expected error for failing command")
	}
	if !strings.Contains(err.Error(), "exited with code") {
		t.Errorf("error = %v, want exit-code message", err)
	}
	if h.errOut.Len() == 0 {
		t.Error("expected child stderr to be printed")
	}
}

func TestExec_WritesAuditTrail(t *testing.T) {
	home := isolateHome(t)

	h := newExecForTest(t, "", "--yes", "echo", "audited")
	if err := h.cmd.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	auditPath := filepath.Join(home, ".vise", "workspace", "state", "audit.jsonl")
	data, err := os.ReadFile(auditPath)
	if err != nil {
		t.Fatalf("audit log not written: %v", err)
	}
	if !strings.Contains(string(data), `"cli"`) || !strings.Contains(string(data), `"allowed"`) {
		t.Errorf("audit event = %s", data)
	}
}
