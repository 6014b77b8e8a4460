// Package policy decides whether a binary referenced by a command may
// execute. Evaluation is pure and deterministic: the same policy and binary
// set always produce the same decision.
package policy

// DefaultDenyList is substituted whenever a caller does not supply a deny
// list. Exported so embedding systems can audit or override it centrally
// instead of relying on a hidden literal.
var DefaultDenyList = []string{"rm", "shutdown", "reboot", "mkfs", "dd"}

// Strict holds explicit opt-ins for shell constructs that are refused by
// default.
type Strict struct {
	// AllowOperators permits chaining operators and command substitution,
	// delegating execution to the host shell.
	AllowOperators bool
}

// Policy describes what a single execution request may do. The zero value is
// the default posture: default deny list, no allow list, no approval gate,
// shell operators refused. A Policy is supplied fresh per invocation and
// never persisted by this package.
type Policy struct {
	// AllowList, when non-empty, is exclusive: a binary absent from it is
	// refused even if no deny entry matches.
	AllowList []string

	// DenyList overrides DefaultDenyList when non-nil. Deny entries always
	// win over allow entries.
	DenyList []string

	// RequireApproval activates the approval gate; Approved satisfies it.
	// The gate sits on top of the binary policy and never bypasses it.
	RequireApproval bool
	Approved        bool

	Strict Strict
}

func (p Policy) denyList() []string {
	if p.DenyList == nil {
		return DefaultDenyList
	}
	return p.DenyList
}
