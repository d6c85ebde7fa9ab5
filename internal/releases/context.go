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

package releases

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/gohugoio/modreleaser/internal/common/templ"
)

// NextRelease describes the release being published.
type NextRelease struct {
	// The semantic version without any v prefix, e.g. 1.2.3.
	Version string

	// Defaults to v<Version>.
	Name string

	// The release notes. May be empty.
	Notes string

	// Defaults to v<Version>.
	GitTag  string
	GitHead string

	// The release channel, e.g. beta. May be empty.
	Channel string

	// The kind of release, e.g. minor. May be empty.
	Type string
}

// Context is the release context for one run, shared by all platforms and strategies.
// It must not be modified once the run has started.
type Context struct {
	NextRelease NextRelease

	// Absolute path to the working directory. Globs are relative to this.
	Cwd string

	// The environment, used for tokens and setting fallbacks.
	Env map[string]string

	version *semver.Version
}

// Init validates the context and applies defaults.
func (c *Context) Init() error {
	what := "release"

	c.NextRelease.Version = strings.TrimPrefix(strings.TrimSpace(c.NextRelease.Version), "v")
	if c.NextRelease.Version == "" {
		return fmt.Errorf("%s: version is required", what)
	}

	var err error
	c.version, err = semver.StrictNewVersion(c.NextRelease.Version)
	if err != nil {
		return fmt.Errorf("%s: invalid version %q: %v", what, c.NextRelease.Version, err)
	}

	if c.NextRelease.Name == "" {
		c.NextRelease.Name = "v" + c.NextRelease.Version
	}
	if c.NextRelease.GitTag == "" {
		c.NextRelease.GitTag = "v" + c.NextRelease.Version
	}
	if c.Env == nil {
		c.Env = make(map[string]string)
	}

	return nil
}

// TemplateContext returns the values available to templates for the given strategy.
// The strategy keys are added to the top level; they can not replace nextRelease.
func (c Context) TemplateContext(strategy map[string]string) templ.Context {
	next := templ.Context{
		"version": c.NextRelease.Version,
		"name":    c.NextRelease.Name,
		"notes":   c.NextRelease.Notes,
		"gitTag":  c.NextRelease.GitTag,
		"gitHead": c.NextRelease.GitHead,
		"channel": c.NextRelease.Channel,
		"type":    c.NextRelease.Type,
	}

	if c.version != nil {
		next["major"] = strconv.FormatUint(c.version.Major(), 10)
		next["minor"] = strconv.FormatUint(c.version.Minor(), 10)
		next["patch"] = strconv.FormatUint(c.version.Patch(), 10)
		next["prerelease"] = c.version.Prerelease()
	}

	return templ.Context{"nextRelease": next}.Merge(strategy)
}
