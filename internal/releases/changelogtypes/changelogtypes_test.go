package changelogtypes

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestType(t *testing.T) {
	c := qt.New(t)

	c.Assert(MustParse("HTML"), qt.Equals, HTML)
	c.Assert(Markdown.String(), qt.Equals, "markdown")

	_, err := Parse("rst")
	c.Assert(err, qt.ErrorMatches, `invalid changelog type "rst", must be one of \[text html markdown\]`)
}
