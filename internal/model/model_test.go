package model

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestFromMap(t *testing.T) {
	c := qt.New(t)

	type Settings struct {
		Name  string   `toml:"name"`
		Globs []string `toml:"globs"`
	}

	type config struct {
		Settings `toml:",squash"`
		ID       string `toml:"id"`
		Featured bool   `toml:"featured"`
		Skip     string `toml:"-"`
	}

	cfg, err := FromMap[config](map[string]any{
		"name":     "foo",
		"globs":    "*.jar",
		"id":       int64(1234),
		"featured": true,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Name, qt.Equals, "foo")
	c.Assert(cfg.Globs, qt.DeepEquals, []string{"*.jar"})
	c.Assert(cfg.ID, qt.Equals, "1234")
	c.Assert(cfg.Featured, qt.IsTrue)

	_, err = FromMap[config](map[string]any{"nme": "foo"})
	c.Assert(err, qt.ErrorMatches, `(?s).*invalid keys: nme.*`)
}
