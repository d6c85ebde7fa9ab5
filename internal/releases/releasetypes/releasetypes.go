package releasetypes

import (
	"fmt"
	"strings"

	"github.com/gohugoio/modreleaser/internal/common/mapsh"
)

// Type is the release channel of an uploaded version.
// Both CurseForge and Modrinth use the same three values.
type Type int

const (
	InvalidType Type = iota
	Alpha
	Beta
	Release
)

var releaseTypeString = map[Type]string{
	Alpha:   "alpha",
	Beta:    "beta",
	Release: "release",
}

var stringReleaseType = mapsh.Invert(releaseTypeString)

func (t Type) String() string {
	return releaseTypeString[t]
}

// Parse parses a string into a ReleaseType.
func Parse(s string) (Type, error) {
	t := stringReleaseType[strings.ToLower(s)]
	if t == InvalidType {
		return t, fmt.Errorf("invalid release type %q, must be one of %s", s, mapsh.KeysSorted(releaseTypeString))
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
