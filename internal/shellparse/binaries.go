package shellparse

import "path/filepath"

// Binaries returns the de-duplicated set of binary names reachable anywhere
// in command: the leading token of every chaining segment, plus the same
// recursively for every command-substitution body. Names are reduced to their
// base ("/usr/bin/rm" becomes "rm") so path-qualified invocations match
// policy entries.
//
// The set is a superset of what a shell could actually invoke for any command
// the dispatcher accepts; over-reporting is fine, under-reporting is not.
func Binaries(command string) ([]string, error) {
	seen := make(map[string]struct{})
	var names []string

	var walk func(text string) error
	walk = func(text string) error {
		segments, err := Split(text)
		if err != nil {
			return err
		}
		for _, segment := range segments {
			tokens, err := Tokenize(segment)
			if err != nil {
				return err
			}
			if len(tokens) == 0 {
				continue
			}
			name := filepath.Base(tokens[0])
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
		// Substitution bodies are strictly shorter than the text that
		// contains them, so this recursion terminates.
		for _, body := range Substitutions(text) {
			if err := walk(body); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(command); err != nil {
		return nil, err
	}
	return names, nil
}
