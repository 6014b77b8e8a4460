package shellparse

import "unicode"

// Tokenize converts a single command into its argv tokens, the way a shell
// with no operators would see them. Whitespace outside quotes separates
// tokens. Single quotes suppress all escaping within them; double quotes
// permit backslash-escaping of the following character; a backslash outside
// quotes is consumed and the next character copied literally. Quote and
// escape characters are not present in the returned tokens.
//
// The result is meant to be spawned directly, with no further interpretation.
// An unterminated quote or trailing escape yields a *SyntaxError, never a
// truncated argv.
func Tokenize(command string) ([]string, error) {
	var tokens []string
	var cur []rune
	inSingle := false
	inDouble := false
	escaped := false

	flush := func() {
		if len(cur) == 0 {
			return
		}
		tokens = append(tokens, string(cur))
		cur = cur[:0]
	}

	for _, r := range command {
		if escaped {
			cur = append(cur, r)
			escaped = false
			continue
		}
		if r == '\\' && !inSingle {
			escaped = true
			continue
		}
		if r == '\'' && !inDouble {
			inSingle = !inSingle
			continue
		}
		if r == '"' && !inSingle {
			inDouble = !inDouble
			continue
		}
		if !inSingle && !inDouble && unicode.IsSpace(r) {
			flush()
			continue
		}
		cur = append(cur, r)
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
	return tokens, nil
}
