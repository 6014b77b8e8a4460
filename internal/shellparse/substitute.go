package shellparse

import (
	"regexp"
	"sort"
)

// Substitution spans are matched textually, compiled once at package init.
// "$( )" matches to the first closing parenthesis, so a nested "$( $( ) )"
// is not fully parsed; the callers' posture is to refuse what they cannot
// account for, so imperfect matching here only over-blocks.
var (
	backtickSpan = regexp.MustCompile("`([^`]*)`")
	dollarSpan   = regexp.MustCompile(`\$\(([^)]*)\)`)
)

// Substitutions returns the inner text of every backtick-delimited and
// "$( )"-delimited span in command, in the order the spans appear. A marker
// with no closing delimiter yields no span.
func Substitutions(command string) []string {
	type span struct {
		start int
		body  string
	}

	var spans []span
	for _, re := range []*regexp.Regexp{backtickSpan, dollarSpan} {
		for _, m := range re.FindAllStringSubmatchIndex(command, -1) {
			spans = append(spans, span{start: m[0], body: command[m[2]:m[3]]})
		}
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	bodies := make([]string, 0, len(spans))
	for _, s := range spans {
		bodies = append(bodies, s.body)
	}
	return bodies
}
