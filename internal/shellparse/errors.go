package shellparse

// SyntaxError reports command text that cannot be parsed: an unterminated
// quote or a trailing escape. Malformed input never produces a truncated
// parse result.
type SyntaxError struct {
	Reason string
}

func (e *SyntaxError) Error() string {
	return "invalid command syntax: " + e.Reason
}

func errUnterminatedSingle() error { return &SyntaxError{Reason: "unterminated single-quoted string"} }
func errUnterminatedDouble() error { return &SyntaxError{Reason: "unterminated double-quoted string"} }
func errTrailingEscape() error     { return &SyntaxError{Reason: "trailing escape character"} }
