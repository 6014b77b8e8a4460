// Package render prepares model output for display.
package render

import (
	"regexp"
	"strings"
)

var thinkBlockRe = regexp.MustCompile(`(?s)<think>(.*?)</think>`)

// SplitThink separates reasoning-trace content from the visible response.
// Models served through some backends emit their chain of thought wrapped
// in <think> tags; the chat view shows it dimmed and collapsible. Multiple
// blocks are joined with a blank line. When no block is present, found is
// false and response is the input unchanged.
func SplitThink(content string) (think, response string, found bool) {
	matches := thinkBlockRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return "", content, false
	}

	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		if trimmed := strings.TrimSpace(m[1]); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	think = strings.Join(parts, "\n\n")
	response = strings.TrimSpace(thinkBlockRe.ReplaceAllString(content, ""))
	return think, response, true
}
