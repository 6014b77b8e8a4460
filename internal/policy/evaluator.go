package policy

import (
	"slices"
	"strings"
)

// IsAllowed reports whether a single binary may execute under p. The deny
// list is checked first and always wins; then a non-empty allow list must
// contain the binary; otherwise the binary is allowed.
func (p Policy) IsAllowed(binary string) bool {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return false
	}
	if slices.Contains(p.denyList(), binary) {
		return false
	}
	if len(p.AllowList) > 0 {
		return slices.Contains(p.AllowList, binary)
	}
	return true
}

// Check evaluates every binary in the set and then the approval gate, in
// that order. Approval never unlocks a denied binary; a denied binary is
// reported even when approval would also have failed.
func (p Policy) Check(binaries []string) error {
	for _, binary := range binaries {
		if !p.IsAllowed(binary) {
			return &DeniedError{Binary: binary}
		}
	}
	if p.RequireApproval && !p.Approved {
		return ErrApprovalRequired
	}
	return nil
}
