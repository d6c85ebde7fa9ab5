package matchers

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gobwas/glob"
)

// pattern => Matcher.
var globCache sync.Map

// Glob returns a matcher that matches if all given glob patterns matches the given string.
// A pattern can be negated with a leading !.
// Patterns are matched against slash separated paths; * does not cross a /, ** does.
func Glob(patterns ...string) (Matcher, error) {
	if len(patterns) == 0 {
		return nil, errors.New("empty patterns")
	}

	matchers := make([]Matcher, len(patterns))
	for i, p := range patterns {
		g, err := globOne(p)
		if err != nil {
			return nil, err
		}
		matchers[i] = g
	}
	if len(matchers) == 1 {
		return matchers[0], nil
	}

	return And(matchers...), nil
}

func globOne(pattern string) (Matcher, error) {
	if pattern == "" {
		return nil, errors.New("empty pattern")
	}
	if m, ok := globCache.Load(pattern); ok {
		return m.(Matcher), nil
	}

	g, err := glob.Compile(strings.TrimPrefix(pattern, "!"), '/')
	if err != nil {
		return nil, err
	}

	var m Matcher = g
	if pattern[0] == '!' {
		m = Not(g)
	}

	globCache.Store(pattern, m)

	return m, nil
}

// Pattern is an include glob and the exclude globs following it.
type Pattern struct {
	Include  string
	Excludes []string

	// Matches Include and none of Excludes.
	Matcher Matcher
}

// ParsePatterns groups patterns into Patterns, in order.
// A pattern starting with ! excludes paths from the include pattern before it.
// Blank patterns are ignored; the rest are cleaned and converted to slash separated paths.
func ParsePatterns(patterns []string) ([]Pattern, error) {
	var result []Pattern
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if strings.HasPrefix(p, "!") {
			if len(result) == 0 {
				return nil, fmt.Errorf("exclude pattern %q must follow an include pattern", p)
			}
			last := &result[len(result)-1]
			last.Excludes = append(last.Excludes, cleanPattern(p[1:]))
			continue
		}
		result = append(result, Pattern{Include: cleanPattern(p)})
	}

	for i, p := range result {
		globs := []string{p.Include}
		for _, e := range p.Excludes {
			globs = append(globs, "!"+e)
		}
		m, err := Glob(globs...)
		if err != nil {
			return nil, fmt.Errorf("invalid glob %q: %w", p.Include, err)
		}
		result[i].Matcher = m
	}

	return result, nil
}

// IsAbs reports whether the include pattern is an absolute path.
func (p Pattern) IsAbs() bool {
	return path.IsAbs(p.Include) || filepath.IsAbs(filepath.FromSlash(p.Include))
}

// Root returns the directories of the include pattern before the first one with a glob meta character.
func (p Pattern) Root() string {
	parts := strings.Split(p.Include, "/")
	var static []string
	for _, part := range parts[:len(parts)-1] {
		if strings.ContainsAny(part, `*?[]{}\!`) {
			break
		}
		static = append(static, part)
	}
	if len(static) == 1 && static[0] == "" {
		return "/"
	}
	return strings.Join(static, "/")
}

// MaxDepth returns the number of path elements in a match, or -1 if the pattern contains **.
func (p Pattern) MaxDepth() int {
	if strings.Contains(p.Include, "**") {
		return -1
	}
	return strings.Count(p.Include, "/") + 1
}

// cleanPattern returns p in the form filepath.WalkDir reports paths: slash separated,
// without . and .. elements where they can be removed.
func cleanPattern(p string) string {
	return path.Clean(filepath.ToSlash(p))
}
