package matchers

// Matcher matches a string.
type Matcher interface {
	Match(string) bool
}

// MatchEverything matches any string.
var MatchEverything Matcher = matchEverything(true)

type matchEverything bool

func (matchEverything) Match(string) bool {
	return true
}

// And returns a matcher that matches if all of the given matchers match.
func And(matchers ...Matcher) Matcher {
	return and(matchers)
}

type and []Matcher

func (m and) Match(s string) bool {
	for _, matcher := range m {
		if !matcher.Match(s) {
			return false
		}
	}
	return true
}

// Or returns a matcher that matches if any of the given matchers match.
func Or(matchers ...Matcher) Matcher {
	return or(matchers)
}

type or []Matcher

func (m or) Match(s string) bool {
	for _, matcher := range m {
		if matcher.Match(s) {
			return true
		}
	}
	return false
}

// Not negates m.
func Not(m Matcher) Matcher {
	return not{m}
}

type not struct {
	m Matcher
}

func (m not) Match(s string) bool {
	return !m.m.Match(s)
}
