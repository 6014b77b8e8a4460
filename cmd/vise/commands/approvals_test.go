package commands

import (
	"strings"
	"testing"

	"github.com/viseworks/vise/internal/approval"
	"github.com/viseworks/vise/internal/config"
)

func seedApproval(t *testing.T, command string) approval.Request {
	t.Helper()
	cfg := config.DefaultConfig()
	svc := approval.NewService(cfg.WorkspacePath())
	req, err := svc.Create(approval.CreateInput{Command: command})
	if err != nil {
		t.Fatalf("Create approval: %v", err)
	}
	return req
}

func TestApprovalsList_Empty(t *testing.T) {
	isolateHome(t)

	output := captureOutput(t, func() {
		if err := runApprovalsList(newApprovalsListCmd(), nil); err != nil {
			t.Fatalf("runApprovalsList error: %v", err)
		}
	})

	if !strings.Contains(output, "No pending approvals") {
		t.Fatalf("expected empty message, got: %s", output)
	}
}

func TestApprovalsList_ShowsPending(t *testing.T) {
	isolateHome(t)
	seedApproval(t, "rm -rf build")

	output := captureOutput(t, func() {
		if err := runApprovalsList(newApprovalsListCmd(), nil); err != nil {
			t.Fatalf("runApprovalsList error: %v", err)
		}
	})

	if !strings.Contains(output, "rm -rf build") || !strings.Contains(output, "pending") {
		t.Fatalf("expected pending request in listing, got: %s", output)
	}
}

func TestApprovalsApproveAndReject(t *testing.T) {
	isolateHome(t)
	first := seedApproval(t, "rm stale.lock")
	second := seedApproval(t, "dd if=/dev/zero of=img")

	output := captureOutput(t, func() {
		if err := runApprovalsDecision(newApprovalsApproveCmd(), first.ID, true); err != nil {
			t.Fatalf("approve error: %v", err)
		}
		if err := runApprovalsDecision(newApprovalsRejectCmd(), second.ID, false); err != nil {
			t.Fatalf("reject error: %v", err)
		}
	})

	if !strings.Contains(output, "Approved request "+first.ID) {
		t.Errorf("expected approval confirmation, got: %s", output)
	}
	if !strings.Contains(output, "Rejected request "+second.ID) {
		t.Errorf("expected rejection confirmation, got: %s", output)
	}

	cfg := config.DefaultConfig()
	svc := approval.NewService(cfg.WorkspacePath())
	pending, err := svc.List(approval.Query{Status: approval.StatusPending})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending requests, got %d", len(pending))
	}
}

func TestApprovalsApprove_UnknownID(t *testing.T) {
	isolateHome(t)

	if err := runApprovalsDecision(newApprovalsApproveCmd(), "404", true); err == nil {
		t.Fatal("expected error for unknown request id")
	}
}
