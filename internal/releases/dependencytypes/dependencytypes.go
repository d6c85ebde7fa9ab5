package dependencytypes

import (
	"fmt"
	"strings"

	"github.com/gohugoio/modreleaser/internal/common/mapsh"
)

// Type is the type of a Modrinth version dependency.
type Type int

const (
	InvalidType Type = iota
	Required
	Optional
	Incompatible
	Embedded
)

var typeString = map[Type]string{
	Required:     "required",
	Optional:     "optional",
	Incompatible: "incompatible",
	Embedded:     "embedded",
}

var stringType = mapsh.Invert(typeString)

func (t Type) String() string {
	return typeString[t]
}

// Parse parses a string into a Type.
func Parse(s string) (Type, error) {
	t := stringType[strings.ToLower(s)]
	if t == InvalidType {
		return t, fmt.Errorf("invalid dependency type %q, must be one of %s", s, mapsh.KeysSorted(typeString))
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
