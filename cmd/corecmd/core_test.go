package corecmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/gohugoio/modreleaser/internal/config"
	"github.com/gohugoio/modreleaser/internal/releases"
)

func TestLoadEnv(t *testing.T) {
	c := qt.New(t)

	filename := filepath.Join(t.TempDir(), EnvFile)
	c.Assert(os.WriteFile(filename, []byte("CURSEFORGE_TOKEN=fromfile\nDISPLAY_NAME=\"My Mod\"\n"), 0o644), qt.IsNil)

	env, err := loadEnv(filename, []string{"CURSEFORGE_TOKEN=fromos", "EMPTY=", "PATH=/bin"})
	c.Assert(err, qt.IsNil)
	c.Assert(env["CURSEFORGE_TOKEN"], qt.Equals, "fromos")
	c.Assert(env["DISPLAY_NAME"], qt.Equals, "My Mod")
	c.Assert(env["PATH"], qt.Equals, "/bin")
	_, found := env["EMPTY"]
	c.Assert(found, qt.IsFalse)

	env, err = loadEnv(filepath.Join(t.TempDir(), "missing.env"), []string{"A=b"})
	c.Assert(err, qt.IsNil)
	c.Assert(env, qt.DeepEquals, map[string]string{"A": "b"})

	c.Assert(os.WriteFile(filename, []byte("CURSEFORGE_TOKEN=fromfile\nthis is not an env line\n"), 0o644), qt.IsNil)
	_, err = loadEnv(filename, nil)
	c.Assert(err, qt.ErrorMatches, `failed to read modreleaser.env: .*`)
}

func TestPlatforms(t *testing.T) {
	c := qt.New(t)

	core := &Core{
		Config: config.Config{
			CurseForge: &config.CurseForge{},
		},
		Env: map[string]string{"CURSEFORGE_TOKEN": "secret", "MODRINTH_TOKEN": "secret2"},
	}

	cf, mr := core.Platform("curseforge"), core.Platform("modrinth")
	c.Assert(cf.Enabled(), qt.IsTrue)
	c.Assert(cf.Token, qt.Equals, "secret")
	c.Assert(mr.Enabled(), qt.IsFalse)
	c.Assert(mr.SkipReason(), qt.Equals, "no [modrinth] section in config")

	core.Env = map[string]string{}
	c.Assert(core.Platform("curseforge").SkipReason(), qt.Equals, "CURSEFORGE_TOKEN is not set")

	core.Try = true
	cf = core.Platform("curseforge")
	c.Assert(cf.Enabled(), qt.IsTrue)
	c.Assert(cf.Token, qt.Equals, releases.FakeToken)
	c.Assert(core.Platform("modrinth").Enabled(), qt.IsFalse)

	c.Assert(func() { core.Platform("github") }, qt.PanicMatches, `unknown platform "github"`)
}

func TestLogReplacer(t *testing.T) {
	c := qt.New(t)

	core := &Core{
		ProjectDir: "/home/me/mymod",
		Env:        map[string]string{"CURSEFORGE_TOKEN": "cf-secret", "MODRINTH_TOKEN": releases.FakeToken},
	}

	r := core.logReplacer()
	c.Assert(r.Replace("token cf-secret in /home/me/mymod/build/libs"), qt.Equals, "token ***** in $CWD/build/libs")
	c.Assert(r.Replace(releases.FakeToken), qt.Equals, releases.FakeToken)
}

func TestInitRelease(t *testing.T) {
	c := qt.New(t)

	dir := t.TempDir()
	c.Assert(os.WriteFile(filepath.Join(dir, "NOTES.md"), []byte("From file."), 0o644), qt.IsNil)

	core := &Core{ProjectDir: dir, NotesFile: "NOTES.md", Version: "v1.2.0", Env: map[string]string{}}
	c.Assert(core.InitRelease(), qt.IsNil)
	c.Assert(core.Release.NextRelease.Notes, qt.Equals, "From file.")
	c.Assert(core.Release.NextRelease.Version, qt.Equals, "1.2.0")
	c.Assert(core.Release.NextRelease.GitTag, qt.Equals, "v1.2.0")
	c.Assert(core.Release.Cwd, qt.Equals, dir)

	core = &Core{ProjectDir: dir, Notes: "Inline.", NotesFile: "NOTES.md", Version: "1.2.0"}
	c.Assert(core.InitRelease(), qt.IsNil)
	c.Assert(core.Release.NextRelease.Notes, qt.Equals, "Inline.")

	c.Assert((&Core{ProjectDir: dir}).InitRelease(), qt.ErrorMatches, "flag -version is required")
	c.Assert((&Core{ProjectDir: dir, Version: "1.2"}).InitRelease(), qt.ErrorMatches, `release: invalid version "1.2".*`)
}

func TestWriteResult(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	core := &Core{Stdout: &buf}
	c.Assert(core.WriteResult(releases.Result{URL: "https://modrinth.com/mod/a/version/b", Platform: "modrinth", ID: "b"}), qt.IsNil)
	c.Assert(buf.String(), qt.Equals, "{\"url\":\"https://modrinth.com/mod/a/version/b\"}\n")
}
