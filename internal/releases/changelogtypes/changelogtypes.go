package changelogtypes

import (
	"fmt"
	"strings"

	"github.com/gohugoio/modreleaser/internal/common/mapsh"
)

// Type is the markup of a CurseForge changelog.
type Type int

const (
	InvalidType Type = iota
	Text
	HTML
	Markdown
)

var typeString = map[Type]string{
	// The string values is what users can specify in the config and what CurseForge expects.
	Text:     "text",
	HTML:     "html",
	Markdown: "markdown",
}

var stringType = mapsh.Invert(typeString)

func (t Type) String() string {
	return typeString[t]
}

// Parse parses a string into a Type.
func Parse(s string) (Type, error) {
	t := stringType[strings.ToLower(s)]
	if t == InvalidType {
		return t, fmt.Errorf("invalid changelog type %q, must be one of %s", s, mapsh.KeysSorted(typeString))
	}
	return t, nil
}

// MustParse is like Parse but panics if the string is not a valid type.
func MustParse(s string) Type {
	t, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return t
}
