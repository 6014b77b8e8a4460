package approval

import (
	"testing"
	"time"
)

func newTestService(t *testing.T) (*Service, *time.Time) {
	t.Helper()
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(t.TempDir())
	svc.now = func() time.Time { return current }
	return svc, &current
}

func TestCreateAndList(t *testing.T) {
	svc, _ := newTestService(t)

	req, err := svc.Create(CreateInput{Command: "rm -rf build", Binaries: []string{"rm"}, Reason: "clean rebuild"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if req.ID != "1" {
		t.Errorf("ID = %q, want 1", req.ID)
	}
	if req.Status != StatusPending {
		t.Errorf("Status = %q, want pending", req.Status)
	}
	if !req.ExpiresAt.Equal(req.RequestedAt.Add(15 * time.Minute)) {
		t.Errorf("default TTL not applied: requested %v, expires %v", req.RequestedAt, req.ExpiresAt)
	}

	pending, err := svc.List(Query{Status: StatusPending})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pending) != 1 || pending[0].Command != "rm -rf build" {
		t.Fatalf("List(pending) = %+v", pending)
	}
}

func TestCreateRequiresCommand(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Create(CreateInput{Command: "   "}); err == nil {
		t.Fatal("expected error for empty command")
	}
}

func TestCreateDeduplicatesPending(t *testing.T) {
	svc, _ := newTestService(t)

	first, err := svc.Create(CreateInput{Command: "dd if=/dev/zero of=img"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	second, err := svc.Create(CreateInput{Command: "dd if=/dev/zero of=img"})
	if err != nil {
		t.Fatalf("Create again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("duplicate pending created new request %s, want %s", second.ID, first.ID)
	}
}

func TestApproveAndRedeem(t *testing.T) {
	svc, _ := newTestService(t)

	req, err := svc.Create(CreateInput{Command: "rm stale.lock"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	approved, err := svc.Approve(req.ID, DecisionInput{DecidedBy: "operator", Note: "lockfile is stale"})
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if approved.Status != StatusApproved {
		t.Errorf("Status = %q, want approved", approved.Status)
	}
	if approved.DecidedBy != "operator" {
		t.Errorf("DecidedBy = %q", approved.DecidedBy)
	}

	ok, err := svc.Redeem("rm stale.lock")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if !ok {
		t.Fatal("Redeem returned false for approved command")
	}

	// An approval is single use.
	ok, err = svc.Redeem("rm stale.lock")
	if err != nil {
		t.Fatalf("Redeem twice: %v", err)
	}
	if ok {
		t.Error("second Redeem succeeded, approval should be consumed")
	}

	consumed, err := svc.List(Query{ID: req.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(consumed) != 1 || consumed[0].Status != StatusConsumed {
		t.Fatalf("List(%s) = %+v, want consumed", req.ID, consumed)
	}
}

func TestRedeemIgnoresPendingAndOtherCommands(t *testing.T) {
	svc, _ := newTestService(t)

	if _, err := svc.Create(CreateInput{Command: "rm a"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	ok, err := svc.Redeem("rm a")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if ok {
		t.Error("Redeem succeeded for a pending request")
	}

	ok, err = svc.Redeem("rm b")
	if err != nil {
		t.Fatalf("Redeem: %v", err)
	}
	if ok {
		t.Error("Redeem succeeded for an unknown command")
	}
}

func TestReject(t *testing.T) {
	svc, _ := newTestService(t)

	req, err := svc.Create(CreateInput{Command: "shutdown -h now"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	rejected, err := svc.Reject(req.ID, DecisionInput{Note: "not on a friday"})
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Errorf("Status = %q, want rejected", rejected.Status)
	}

	if _, err := svc.Approve(req.ID, DecisionInput{}); err == nil {
		t.Error("Approve succeeded on a rejected request")
	}
}

func TestDecideUnknownID(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Approve("42", DecisionInput{}); err == nil {
		t.Fatal("expected error for unknown id")
	}
}

func TestExpiry(t *testing.T) {
	svc, clock := newTestService(t)

	req, err := svc.Create(CreateInput{Command: "mkfs.ext4 /dev/sdb1", TTL: time.Minute})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	*clock = clock.Add(2 * time.Minute)

	if _, err := svc.Approve(req.ID, DecisionInput{}); err == nil {
		t.Error("Approve succeeded on an expired request")
	}

	expired, err := svc.ExpirePending()
	if err != nil {
		t.Fatalf("ExpirePending: %v", err)
	}
	// Approve already flipped the request to expired, so the sweep finds
	// nothing new.
	if len(expired) != 0 {
		t.Errorf("ExpirePending = %+v, want empty", expired)
	}

	rows, err := svc.List(Query{ID: req.ID})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 1 || rows[0].Status != StatusExpired {
		t.Fatalf("List(%s) = %+v, want expired", req.ID, rows)
	}
}

func TestExpirePendingSweep(t *testing.T) {
	svc, clock := newTestService(t)

	if _, err := svc.Create(CreateInput{Command: "rm old", TTL: time.Minute}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(CreateInput{Command: "rm fresh", TTL: time.Hour}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	*clock = clock.Add(5 * time.Minute)

	expired, err := svc.ExpirePending()
	if err != nil {
		t.Fatalf("ExpirePending: %v", err)
	}
	if len(expired) != 1 || expired[0].Command != "rm old" {
		t.Fatalf("ExpirePending = %+v, want only the short-TTL request", expired)
	}
}
