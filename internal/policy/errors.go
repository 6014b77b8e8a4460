package policy

import (
	"errors"
	"fmt"
)

// ErrOperatorsBlocked rejects a command containing chaining or substitution
// syntax when Strict.AllowOperators was not granted.
var ErrOperatorsBlocked = errors.New("command contains shell operators or command substitution and strict policy does not permit them")

// ErrApprovalRequired rejects a command when the approval gate is active and
// consent has not been recorded.
var ErrApprovalRequired = errors.New("command requires operator approval")

// DeniedError names the specific binary the policy refused, so an operator
// can make an informed approval decision.
type DeniedError struct {
	Binary string
}

func (e *DeniedError) Error() string {
	return fmt.Sprintf("binary %q is not permitted by policy", e.Binary)
}
