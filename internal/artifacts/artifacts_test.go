package artifacts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
)

func writeFiles(c *qt.C, dir string, filenames ...string) {
	c.Helper()
	for _, filename := range filenames {
		filename = filepath.Join(dir, filepath.FromSlash(filename))
		c.Assert(os.MkdirAll(filepath.Dir(filename), 0o755), qt.IsNil)
		c.Assert(os.WriteFile(filename, []byte("jar"), 0o644), qt.IsNil)
	}
}

func TestFind(t *testing.T) {
	c := qt.New(t)

	dir := t.TempDir()
	writeFiles(c, dir,
		"build/libs/mod-1.0.jar",
		"build/libs/mod-1.0-dev.jar",
		"build/libs/mod-1.0-sources.jar",
		"build/libs/mod-1.0-javadoc.jar",
		"build/libs/nested/other.jar",
		"build/libs/readme.txt",
		"fabric/build/libs/mod-fabric.jar",
	)
	c.Assert(os.MkdirAll(filepath.Join(dir, "build/libs/dir.jar"), 0o755), qt.IsNil)

	abs := func(filenames ...string) []string {
		var result []string
		for _, f := range filenames {
			result = append(result, filepath.Join(dir, filepath.FromSlash(f)))
		}
		return result
	}

	c.Run("Defaults", func(c *qt.C) {
		files, err := Find(dir, nil)
		c.Assert(err, qt.IsNil)
		c.Assert(files, qt.DeepEquals, abs(
			"build/libs/mod-1.0.jar",
			"build/libs/mod-1.0-dev.jar",
			"build/libs/mod-1.0-javadoc.jar",
			"build/libs/mod-1.0-sources.jar",
		))
	})

	c.Run("Patterns in order, duplicates kept", func(c *qt.C) {
		files, err := Find(dir, []string{"build/libs/*-sources.jar", "build/libs/*.jar"})
		c.Assert(err, qt.IsNil)
		c.Assert(files, qt.DeepEquals, abs(
			"build/libs/mod-1.0-sources.jar",
			"build/libs/mod-1.0-dev.jar",
			"build/libs/mod-1.0-javadoc.jar",
			"build/libs/mod-1.0-sources.jar",
			"build/libs/mod-1.0.jar",
		))
	})

	c.Run("Double star", func(c *qt.C) {
		files, err := Find(dir, []string{"**/mod-fabric.jar", "./build/libs/nested/*.jar"})
		c.Assert(err, qt.IsNil)
		c.Assert(files, qt.DeepEquals, abs(
			"fabric/build/libs/mod-fabric.jar",
			"build/libs/nested/other.jar",
		))
	})

	c.Run("Absolute pattern", func(c *qt.C) {
		files, err := Find(t.TempDir(), []string{filepath.ToSlash(filepath.Join(dir, "build/libs")) + "/*-dev.jar"})
		c.Assert(err, qt.IsNil)
		c.Assert(files, qt.DeepEquals, abs("build/libs/mod-1.0-dev.jar"))
	})

	c.Run("Unclean patterns", func(c *qt.C) {
		libs := filepath.ToSlash(filepath.Join(dir, "build/libs"))
		files, err := Find(dir, []string{"build/./libs/*-dev.jar", libs + "/../libs/*-sources.jar"})
		c.Assert(err, qt.IsNil)
		c.Assert(files, qt.DeepEquals, abs(
			"build/libs/mod-1.0-dev.jar",
			"build/libs/mod-1.0-sources.jar",
		))
	})

	c.Run("No files", func(c *qt.C) {
		files, err := Find(dir, []string{"build/libs/*.zip", "nope/*.jar"})
		c.Assert(errors.Is(err, ErrNoFiles), qt.IsTrue)
		c.Assert(err, qt.ErrorMatches, `no files found matching patterns: build/libs/\*.zip, nope/\*.jar`)
		c.Assert(files, qt.IsNil)

		_, err = Find(t.TempDir(), nil)
		c.Assert(errors.Is(err, ErrNoFiles), qt.IsTrue)
	})

	c.Run("Invalid", func(c *qt.C) {
		_, err := Find(dir, []string{"!build/libs/*.jar"})
		c.Assert(err, qt.ErrorMatches, `exclude pattern.*must follow an include pattern`)
		_, err = Find(dir, []string{"build/libs/[.jar"})
		c.Assert(err, qt.ErrorMatches, `invalid glob.*`)
	})
}

func TestSelectPrimary(t *testing.T) {
	c := qt.New(t)

	dir := t.TempDir()
	writeFiles(c, dir, "a.jar", "b.jar", "c.jar")
	a, b := filepath.Join(dir, "a.jar"), filepath.Join(dir, "b.jar")

	c.Run("Single file", func(c *qt.C) {
		primary, err := SelectPrimary(dir, []string{a}, nil)
		c.Assert(err, qt.IsNil)
		c.Assert(primary, qt.Equals, a)
	})

	c.Run("Single file matched twice", func(c *qt.C) {
		primary, err := SelectPrimary(dir, []string{a, a}, nil)
		c.Assert(err, qt.IsNil)
		c.Assert(primary, qt.Equals, a)
	})

	c.Run("Ambiguous", func(c *qt.C) {
		_, err := SelectPrimary(dir, []string{a, b}, nil)
		c.Assert(errors.Is(err, ErrAmbiguousPrimary), qt.IsTrue)
	})

	c.Run("Multiple candidates", func(c *qt.C) {
		_, err := SelectPrimary(dir, []string{a, b}, []string{"*.jar"})
		c.Assert(errors.Is(err, ErrMultiplePrimaryCandidates), qt.IsTrue)
		c.Assert(err, qt.ErrorMatches, `.*found .*a\.jar, .*b\.jar`)
	})

	c.Run("One candidate", func(c *qt.C) {
		primary, err := SelectPrimary(dir, []string{a, b}, []string{"a.jar"})
		c.Assert(err, qt.IsNil)
		c.Assert(primary, qt.Equals, a)
	})

	c.Run("Candidate must be in files", func(c *qt.C) {
		// c.jar exists on disk but is not one of the files.
		primary, err := SelectPrimary(dir, []string{a, b}, []string{"{a,c}.jar"})
		c.Assert(err, qt.IsNil)
		c.Assert(primary, qt.Equals, a)

		_, err = SelectPrimary(dir, []string{a, b}, []string{"c.jar"})
		c.Assert(errors.Is(err, ErrNoPrimaryCandidates), qt.IsTrue)
	})

	c.Run("Primary glob with a single file", func(c *qt.C) {
		_, err := SelectPrimary(dir, []string{a}, []string{"b.jar"})
		c.Assert(errors.Is(err, ErrNoPrimaryCandidates), qt.IsTrue)
	})

	c.Run("Same candidate from several patterns", func(c *qt.C) {
		primary, err := SelectPrimary(dir, []string{a, b}, []string{"a.jar", "?.jar", "!b.jar"})
		c.Assert(err, qt.IsNil)
		c.Assert(primary, qt.Equals, a)
	})

	c.Run("No files", func(c *qt.C) {
		_, err := SelectPrimary(dir, nil, nil)
		c.Assert(errors.Is(err, ErrNoFiles), qt.IsTrue)
	})
}

func TestResolve(t *testing.T) {
	c := qt.New(t)

	dir := t.TempDir()
	writeFiles(c, dir, "mod-primary.jar", "mod-sources.jar")

	set, err := Resolve(dir, []string{"*.jar"}, []string{"*-primary.jar"})
	c.Assert(err, qt.IsNil)
	c.Assert(set, qt.DeepEquals, Set{
		Files:   []string{filepath.Join(dir, "mod-primary.jar"), filepath.Join(dir, "mod-sources.jar")},
		Primary: filepath.Join(dir, "mod-primary.jar"),
	})
	c.Assert(set.Secondary(), qt.DeepEquals, []string{filepath.Join(dir, "mod-sources.jar")})

	_, err = Resolve(dir, []string{"*.jar"}, nil)
	c.Assert(errors.Is(err, ErrAmbiguousPrimary), qt.IsTrue)
}

func TestSetSecondary(t *testing.T) {
	c := qt.New(t)

	set := Set{Files: []string{"/a", "/b", "/a", "/c", "/b"}, Primary: "/b"}
	c.Assert(set.Secondary(), qt.DeepEquals, []string{"/a", "/c"})
	c.Assert(set.Unique(), qt.DeepEquals, []string{"/b", "/a", "/c"})

	c.Assert(Set{Files: []string{"/a"}, Primary: "/a"}.Secondary(), qt.IsNil)
}
