// Copyright 2026 The Modreleaser Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package relationtypes holds the kinds of project relations CurseForge knows about.
package relationtypes

import (
	"fmt"
	"strings"

	"github.com/gohugoio/modreleaser/internal/common/mapsh"
)

// Type is the type of a CurseForge project relation.
type Type int

func (t Type) String() string {
	return typeString[t]
}

// APIName returns the name the CurseForge upload API expects.
func (t Type) APIName() string {
	return typeAPIName[t]
}

const (
	// Invalid is an invalid type.
	Invalid Type = iota

	EmbeddedLibrary
	Incompatible
	OptionalDependency
	RequiredDependency
	Tool
)

// Parse parses a string into a Type.
// Both the config form (required_dependency) and the API form (requiredDependency) are accepted.
func Parse(s string) (Type, error) {
	key := strings.ToLower(s)
	t := stringType[key]
	if t == Invalid {
		t = apiNameType[key]
	}
	if t == Invalid {
		return t, fmt.Errorf("invalid relation type %q, must be one of %s", s, mapsh.KeysSorted(typeString))
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

var typeString = map[Type]string{
	// The string values is what users can specify in the config.
	EmbeddedLibrary:    "embedded_library",
	Incompatible:       "incompatible",
	OptionalDependency: "optional_dependency",
	RequiredDependency: "required_dependency",
	Tool:               "tool",
}

var typeAPIName = map[Type]string{
	EmbeddedLibrary:    "embeddedLibrary",
	Incompatible:       "incompatible",
	OptionalDependency: "optionalDependency",
	RequiredDependency: "requiredDependency",
	Tool:               "tool",
}

var (
	stringType  = mapsh.Invert(typeString)
	apiNameType = map[string]Type{}
)

func init() {
	for k, v := range typeAPIName {
		apiNameType[strings.ToLower(v)] = k
	}
}
