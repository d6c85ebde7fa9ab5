package templ

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSprintt(t *testing.T) {
	c := qt.New(t)

	sprintt := func(t string, ctx any) string {
		c.Helper()
		s, err := Sprintt(t, ctx)
		c.Assert(err, qt.IsNil)
		return s
	}

	c.Assert(sprintt("{{ . }}", "foo"), qt.Equals, "foo")
	c.Assert(sprintt("{{ . | upper }}", "foo"), qt.Equals, "FOO")
	c.Assert(sprintt("{{ . | lower }}", "FoO"), qt.Equals, "foo")
	c.Assert(sprintt("{{ . | trimPrefix `v` }}", "v3.0.0"), qt.Equals, "3.0.0")
	c.Assert(sprintt("{{ . | trimSuffix `-beta` }}", "v3.0.0-beta"), qt.Equals, "v3.0.0")

	_, err := Sprintt("{{ .foo }}", map[string]any{})
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestRender(t *testing.T) {
	c := qt.New(t)

	ctx := Context{
		"nextRelease": map[string]any{
			"version": "1.2.3",
			"name":    "v1.2.3",
		},
		"loader": "fabric",
	}

	render := func(s string) string {
		c.Helper()
		r, err := Render(s, ctx)
		c.Assert(err, qt.IsNil)
		return r
	}

	c.Assert(render("v${nextRelease.version}"), qt.Equals, "v1.2.3")
	c.Assert(render("${ nextRelease.version }+${loader}"), qt.Equals, "1.2.3+fabric")
	c.Assert(render("no templates"), qt.Equals, "no templates")
	c.Assert(render("costs $5"), qt.Equals, "costs $5")
	c.Assert(render("literal $${loader}"), qt.Equals, "literal ${loader}")
	c.Assert(render("{{ .nextRelease.version }}-{{ .loader | upper }}"), qt.Equals, "1.2.3-FABRIC")

	// Go templates are not re-expanded.
	c.Assert(render("{{ `${loader}` }}"), qt.Equals, "${loader}")

	c.Run("Undefined", func(c *qt.C) {
		_, err := Render("v${nextRelease.nope}", ctx)
		c.Assert(errors.Is(err, ErrUndefinedVariable), qt.IsTrue)
		_, err = Render("${loader.name}", ctx)
		c.Assert(errors.Is(err, ErrUndefinedVariable), qt.IsTrue)
		_, err = Render("${missing}", ctx)
		c.Assert(err, qt.ErrorMatches, `undefined variable: "missing"`)
	})

	c.Run("No expressions", func(c *qt.C) {
		_, err := Render("${nextRelease.version + 1}", ctx)
		c.Assert(err, qt.ErrorMatches, `invalid reference.*`)
		_, err = Render("${nextRelease['version']}", ctx)
		c.Assert(err, qt.ErrorMatches, `invalid reference.*`)
		_, err = Render("${}", ctx)
		c.Assert(err, qt.Not(qt.IsNil))
		_, err = Render("${nextRelease", ctx)
		c.Assert(err, qt.ErrorMatches, `unterminated.*`)
		_, err = Render("${nextRelease}", ctx)
		c.Assert(err, qt.ErrorMatches, `.*is not a value`)
	})
}

func TestResolve(t *testing.T) {
	c := qt.New(t)

	ctx := Context{"nextRelease": Context{"version": "1.2.3"}}

	s, found, err := Resolve(ctx, "", "first ${nextRelease.version}", "second")
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(s, qt.Equals, "first 1.2.3")

	// Later sources are never rendered.
	s, found, err = Resolve(ctx, "first", "${broken")
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(s, qt.Equals, "first")

	_, found, err = Resolve(ctx, "", "")
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsFalse)

	_, found, err = Resolve(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsFalse)

	_, found, err = Resolve(ctx, "${nope}", "fallback")
	c.Assert(found, qt.IsTrue)
	c.Assert(errors.Is(err, ErrUndefinedVariable), qt.IsTrue)

	l, found, err := ResolveList(ctx, nil, []string{}, []string{"${nextRelease.version}", "1.20"}, []string{"ignored"})
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsTrue)
	c.Assert(l, qt.DeepEquals, []string{"1.2.3", "1.20"})

	l, found, err = ResolveList(ctx, nil, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(found, qt.IsFalse)
	c.Assert(l, qt.IsNil)
}

func TestContextMerge(t *testing.T) {
	c := qt.New(t)

	ctx := Context{"nextRelease": "x"}
	m := ctx.Merge(map[string]string{"nextRelease": "y", "mc": "1.20"})
	c.Assert(m["nextRelease"], qt.Equals, "x")
	c.Assert(m["mc"], qt.Equals, "1.20")
	c.Assert(ctx["mc"], qt.IsNil)
}
