// Package matching compiles glob-style exclusion patterns for slash separated relative paths.
//
// Supported syntax:
//
//	**     any sequence of characters, directory separators included
//	*      any sequence of characters within a single path segment
//	?      a single character other than the separator
//	[...]  character class, [!...] negates
//
// Every other character is literal, braces and backslashes included (no {a,b} alternation, no escaping).
// A pattern has to match the whole path, there is no implicit prefix or suffix matching.
package matching

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

const Separator = '/'

type matcher struct {
	pattern  string
	compiled glob.Glob
}

// Matchers is an ordered set of compiled patterns. The zero value matches nothing.
type Matchers struct {
	list []matcher
}

// Compile turns all patterns into matchers, failing on the first malformed one.
func Compile(patterns []string) (Matchers, error) {
	compiled := Matchers{list: make([]matcher, 0, len(patterns))}
	for _, pattern := range patterns {
		g, err := glob.Compile(literalizeSpecials(pattern), Separator)
		if err != nil {
			return Matchers{}, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
		compiled.list = append(compiled.list, matcher{pattern: pattern, compiled: g})
	}
	return compiled, nil
}

// literalizeSpecials escapes the glob syntax beyond wildcards and classes so it matches literally.
// Inside a character class characters are left untouched.
func literalizeSpecials(pattern string) string {
	var escaped strings.Builder
	inClass := false
	for _, r := range pattern {
		switch {
		case inClass:
			if r == ']' {
				inClass = false
			}
		case r == '[':
			inClass = true
		case r == '{' || r == '}' || r == '\\':
			escaped.WriteRune('\\')
		}
		escaped.WriteRune(r)
	}
	return escaped.String()
}

// MatchingPattern yields the first pattern matching the slash separated path.
func (m Matchers) MatchingPattern(path string) (pattern string, found bool) {
	for _, candidate := range m.list {
		if candidate.compiled.Match(path) {
			return candidate.pattern, true
		}
	}
	return "", false
}
