// Package shellparse implements the conservative shell-syntax subset behind
// the command execution gate. It can tokenize a plain command into argv with
// no shell involvement, split a command at chaining operators, and enumerate
// command-substitution bodies. It is deliberately not a POSIX shell parser:
// anything it cannot account for is reported so the caller can refuse it.
package shellparse

import "strings"

// ContainsOperators reports whether command contains any chaining operator
// (&&, ||, ;, |) or a command-substitution marker (backtick or "$(").
//
// This is a plain textual scan, not a quote-aware one: a literal "&&" inside
// quotes still counts. A false positive only forces shell delegation or
// refusal; a false negative would let a sub-command past the policy gate.
func ContainsOperators(command string) bool {
	return strings.ContainsAny(command, ";|`") || strings.Contains(command, "&&") ||
		strings.Contains(command, "$(")
}

// Split divides command into ordered, trimmed, non-empty segments at unquoted
// occurrences of &&, ||, ; and |. Characters inside single or double quotes
// are copied literally, as is any character following a backslash outside
// single quotes. An unterminated quote or trailing escape yields a
// *SyntaxError.
func Split(command string) ([]string, error) {
	var segments []string
	var cur strings.Builder
	inSingle := false
	inDouble := false
	escaped := false

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			segments = append(segments, s)
		}
		cur.Reset()
	}

	for i := 0; i < len(command); i++ {
		ch := command[i]

		if escaped {
			cur.WriteByte(ch)
			escaped = false
			continue
		}
		if ch == '\\' && !inSingle {
			cur.WriteByte(ch)
			escaped = true
			continue
		}
		if ch == '\'' && !inDouble {
			inSingle = !inSingle
			cur.WriteByte(ch)
			continue
		}
		if ch == '"' && !inSingle {
			inDouble = !inDouble
			cur.WriteByte(ch)
			continue
		}
		if inSingle || inDouble {
			cur.WriteByte(ch)
			continue
		}

		if (ch == '&' || ch == '|') && i+1 < len(command) && command[i+1] == ch {
			flush()
			i++
			continue
		}
		if ch == ';' || ch == '|' {
			flush()
			continue
		}

		cur.WriteByte(ch)
	}

	if escaped {
		return nil, errTrailingEscape()
	}
	if inSingle {
		return nil, errUnterminatedSingle()
	}
	if inDouble {
		return nil, errUnterminatedDouble()
	}

	flush()
	return segments, nil
}
