package policy

import (
	"errors"
	"testing"
)

func TestIsAllowed_DefaultDenyListApplies(t *testing.T) {
	p := Policy{}
	for _, binary := range DefaultDenyList {
		if p.IsAllowed(binary) {
			t.Errorf("expected %q to be denied by the default deny list", binary)
		}
	}
	if !p.IsAllowed("echo") {
		t.Error("expected echo to be allowed under the zero-value policy")
	}
}

func TestIsAllowed_ExplicitDenyListReplacesDefault(t *testing.T) {
	p := Policy{DenyList: []string{"curl"}}
	if p.IsAllowed("curl") {
		t.Error("expected curl to be denied")
	}
	// rm is only on the default list, which an explicit list replaces.
	if !p.IsAllowed("rm") {
		t.Error("expected rm to be allowed once the deny list is replaced")
	}
}

func TestIsAllowed_EmptyDenyListDisablesDenials(t *testing.T) {
	p := Policy{DenyList: []string{}}
	if !p.IsAllowed("rm") {
		t.Error("expected rm to be allowed with an explicitly empty deny list")
	}
}

func TestIsAllowed_AllowListIsExclusive(t *testing.T) {
	p := Policy{AllowList: []string{"git"}}
	if !p.IsAllowed("git") {
		t.Error("expected git to be allowed")
	}
	if p.IsAllowed("make") {
		t.Error("expected make to be refused when absent from a non-empty allow list")
	}
}

func TestIsAllowed_DenyWinsOverAllow(t *testing.T) {
	p := Policy{AllowList: []string{"rm"}, DenyList: []string{"rm"}}
	if p.IsAllowed("rm") {
		t.Error("expected deny list to take precedence over allow list")
	}
}

func TestIsAllowed_EmptyBinaryRefused(t *testing.T) {
	if (Policy{}).IsAllowed("") {
		t.Error("expected empty binary name to be refused")
	}
}

func TestCheck_NamesDeniedBinary(t *testing.T) {
	p := Policy{DenyList: []string{"rm"}}
	err := p.Check([]string{"echo", "rm"})

	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("error = %v, want *DeniedError", err)
	}
	if denied.Binary != "rm" {
		t.Fatalf("denied binary = %q, want %q", denied.Binary, "rm")
	}
}

func TestCheck_ApprovalGateAfterBinaryPolicy(t *testing.T) {
	p := Policy{RequireApproval: true}
	if err := p.Check([]string{"echo"}); !errors.Is(err, ErrApprovalRequired) {
		t.Fatalf("error = %v, want ErrApprovalRequired", err)
	}

	p.Approved = true
	if err := p.Check([]string{"echo"}); err != nil {
		t.Fatalf("unexpected error after approval: %v", err)
	}
}

func TestCheck_ApprovalDoesNotBypassDenyList(t *testing.T) {
	// Approval and the binary policy are independent gates: consent alone
	// never unlocks a denied binary.
	p := Policy{DenyList: []string{"rm"}, Approved: true}
	err := p.Check([]string{"rm"})

	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("error = %v, want *DeniedError despite approval", err)
	}
}

func TestCheck_EmptySetPassesBinaryPolicy(t *testing.T) {
	if err := (Policy{}).Check(nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
