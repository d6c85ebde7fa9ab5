package staticfiles

import (
	_ "embed"
	"text/template"

	"github.com/gohugoio/modreleaser/internal/common/templ"
)

var (
	//go:embed templates/release-notes.gotmpl
	releaseNotesTemplContent []byte

	// ReleaseNotesTemplate is the template for the release notes built from the git log.
	ReleaseNotesTemplate *template.Template
)

func init() {
	ReleaseNotesTemplate = template.Must(template.New("release-notes").Funcs(templ.BuiltInFuncs).Parse(string(releaseNotesTemplContent)))
}
