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

package model

import (
	"github.com/mitchellh/mapstructure"
)

type Initializer interface {
	// Init initializes a config struct, that could be parsing of strings into Go objects, validation of required fields etc.
	// It returns an error if the initialization failed.
	Init() error
}

// FromMap converts m to T.
// Struct fields are matched on their toml tag, a single value is accepted where a slice is expected
// and keys in m without a matching field is an error.
// See https://pkg.go.dev/github.com/mitchellh/mapstructure#section-readme
func FromMap[T any](m map[string]any) (T, error) {
	var t T
	d, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "toml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &t,
	})
	if err != nil {
		return t, err
	}
	err = d.Decode(m)
	return t, err
}
