package matchers

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

type suffixMatcher string

func (m suffixMatcher) Match(s string) bool {
	return strings.HasSuffix(s, string(m))
}

func TestOps(t *testing.T) {
	c := qt.New(t)

	jar, sources, javadoc := suffixMatcher(".jar"), suffixMatcher("-sources.jar"), suffixMatcher("-javadoc.jar")

	c.Assert(And(jar, Not(sources)).Match("mod.jar"), qt.IsTrue)
	c.Assert(And(jar, Not(sources)).Match("mod-sources.jar"), qt.IsFalse)
	c.Assert(And(jar, Not(Or(sources, javadoc))).Match("mod-javadoc.jar"), qt.IsFalse)

	c.Assert(Or(sources, javadoc).Match("mod-javadoc.jar"), qt.IsTrue)
	c.Assert(Or(sources, javadoc).Match("mod.zip"), qt.IsFalse)
	c.Assert(Or().Match("mod.jar"), qt.IsFalse)
	c.Assert(And().Match("mod.jar"), qt.IsTrue)

	c.Assert(MatchEverything.Match(""), qt.IsTrue)
}
