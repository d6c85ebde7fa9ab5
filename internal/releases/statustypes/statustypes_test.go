package statustypes

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestStatus(t *testing.T) {
	c := qt.New(t)

	c.Assert(MustParse("Draft"), qt.Equals, Draft)
	c.Assert(Listed.String(), qt.Equals, "listed")

	_, err := Parse("hidden")
	c.Assert(err, qt.ErrorMatches, `invalid status "hidden", must be one of \[listed archived draft unlisted scheduled unknown\]`)

	st, err := ParseRequested("unlisted")
	c.Assert(err, qt.IsNil)
	c.Assert(st, qt.Equals, Unlisted)

	_, err = ParseRequested("scheduled")
	c.Assert(err, qt.ErrorMatches, `invalid requested status "scheduled".*`)
}
