package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bep/logg"
	"github.com/bep/logg/handlers/multi"
	qt "github.com/frankban/quicktest"
)

func TestNoColoursHandler(t *testing.T) {
	c := qt.New(t)

	var out, errOut bytes.Buffer
	l := logg.New(logg.Options{Level: logg.LevelInfo, Handler: NewNoColoursHandler(&out, &errOut)})

	infoLog := l.WithLevel(logg.LevelInfo).WithField(FieldCmd, "core").WithField(FieldCmd, "publish")
	infoLog.WithFields(logg.Fields{
		{Name: FieldPlatform, Value: "modrinth"},
		{Name: "url", Value: "https://modrinth.com/mod/a/version/b"},
	}).Log(logg.String("Published"))

	l.WithLevel(logg.LevelWarn).WithField(FieldCmd, "prepare").Log(logg.String("Unknown CurseForge game versions: 1.99"))

	c.Assert(out.String(), qt.Equals, "PUBLISH:\tmodrinth: Published url https://modrinth.com/mod/a/version/b\n")
	c.Assert(errOut.String(), qt.Equals, "PREPARE:\tUnknown CurseForge game versions: 1.99\n")
}

func TestReplacer(t *testing.T) {
	c := qt.New(t)

	var out bytes.Buffer
	h := multi.New(
		Replacer(strings.NewReplacer("s3cret", "*****")),
		NewNoColoursHandler(&out, &out),
	)
	l := logg.New(logg.Options{Level: logg.LevelInfo, Handler: h})

	l.WithLevel(logg.LevelError).WithFields(logg.Fields{
		{Name: "token", Value: "s3cret"},
		{Name: "error", Value: errors.New("bad token s3cret")},
	}).Log(logg.String("Using s3cret"))

	c.Assert(out.String(), qt.Equals, "Using ***** token ***** error bad token *****\n")
}

func TestFormatDuration(t *testing.T) {
	c := qt.New(t)

	c.Assert(FormatDuration(150*time.Millisecond), qt.Equals, "150ms")
	c.Assert(FormatDuration(2500*time.Millisecond), qt.Equals, "2.50s")
}
