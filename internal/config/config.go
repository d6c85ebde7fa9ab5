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

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gohugoio/modreleaser/internal/model"
	"github.com/gohugoio/modreleaser/internal/releases/changelogtypes"
	"github.com/gohugoio/modreleaser/internal/releases/dependencytypes"
	"github.com/gohugoio/modreleaser/internal/releases/relationtypes"
	"github.com/gohugoio/modreleaser/internal/releases/releasetypes"
	"github.com/gohugoio/modreleaser/internal/releases/statustypes"
)

var (
	_ model.Initializer = (*Config)(nil)
	_ model.Initializer = (*CurseForge)(nil)
	_ model.Initializer = (*Modrinth)(nil)
	_ model.Initializer = (*Relation)(nil)
	_ model.Initializer = (*Dependency)(nil)
)

// The strategy key reserved for the release context.
const reservedStrategyKey = "nextRelease"

type Config struct {
	// Global settings used when a platform does not set its own.
	ReleaseType     string   `toml:"release_type"`
	DisplayName     string   `toml:"display_name"`
	Glob            []string `toml:"glob"`
	PrimaryFileGlob []string `toml:"primary_file_glob"`
	GameVersions    []string `toml:"game_versions"`
	ModLoaders      []string `toml:"mod_loaders"`

	// Each strategy publishes the release once more with its keys added to the template context.
	Strategies []map[string]string `toml:"strategies"`

	// Nil if not configured.
	CurseForge *CurseForge `toml:"curseforge"`
	Modrinth   *Modrinth   `toml:"modrinth"`
}

func (c *Config) Init() error {
	what := "config"

	c.Glob = cleanList(c.Glob)
	c.PrimaryFileGlob = cleanList(c.PrimaryFileGlob)
	c.GameVersions = cleanList(c.GameVersions)
	c.ModLoaders = cleanList(c.ModLoaders)

	if err := validateReleaseType(c.ReleaseType); err != nil {
		return fmt.Errorf("%s: %v", what, err)
	}

	for i, s := range c.Strategies {
		if _, found := s[reservedStrategyKey]; found {
			return fmt.Errorf("%s: strategies[%d]: key %q is reserved", what, i, reservedStrategyKey)
		}
	}

	if c.CurseForge != nil {
		if err := c.CurseForge.Init(); err != nil {
			return err
		}
	}

	if c.Modrinth != nil {
		if err := c.Modrinth.Init(); err != nil {
			return err
		}
	}

	return nil
}

// StrategiesOrDefault returns the configured strategies, or a single empty strategy if none is set.
func (c Config) StrategiesOrDefault() []map[string]string {
	if len(c.Strategies) == 0 {
		return []map[string]string{{}}
	}
	return c.Strategies
}

// PlatformSettings are the settings shared by all platforms.
// Any of the string values may be a template.
type PlatformSettings struct {
	ProjectID       string   `toml:"project_id"`
	DisplayName     string   `toml:"display_name"`
	Glob            []string `toml:"glob"`
	PrimaryFileGlob []string `toml:"primary_file_glob"`
	Changelog       string   `toml:"changelog"`
	GameVersions    []string `toml:"game_versions"`
	ModLoaders      []string `toml:"mod_loaders"`
	ReleaseType     string   `toml:"release_type"`
}

func (p *PlatformSettings) init(what string) error {
	p.ProjectID = strings.TrimSpace(p.ProjectID)
	if p.ProjectID == "" {
		return fmt.Errorf("%s: project_id is required", what)
	}

	p.Glob = cleanList(p.Glob)
	p.PrimaryFileGlob = cleanList(p.PrimaryFileGlob)
	p.GameVersions = cleanList(p.GameVersions)
	p.ModLoaders = cleanList(p.ModLoaders)

	if err := validateReleaseType(p.ReleaseType); err != nil {
		return fmt.Errorf("%s: %v", what, err)
	}

	return nil
}

type CurseForge struct {
	PlatformSettings `toml:",squash"`

	ChangelogType            string     `toml:"changelog_type"`
	JavaVersions             []string   `toml:"java_versions"`
	Environments             []string   `toml:"environments"`
	GameVersionsForPlugins   []string   `toml:"game_versions_for_plugins"`
	GameVersionsForAddon     []string   `toml:"game_versions_for_addon"`
	IsMarkedForManualRelease bool       `toml:"is_marked_for_manual_release"`
	Relations                []Relation `toml:"relations"`

	ChangelogTypeParsed changelogtypes.Type `toml:"-"`
}

func (c *CurseForge) Init() error {
	what := "curseforge"

	if err := c.PlatformSettings.init(what); err != nil {
		return err
	}

	c.JavaVersions = cleanList(c.JavaVersions)
	c.Environments = cleanList(c.Environments)
	c.GameVersionsForPlugins = cleanList(c.GameVersionsForPlugins)
	c.GameVersionsForAddon = cleanList(c.GameVersionsForAddon)

	if c.ChangelogType == "" {
		c.ChangelogType = changelogtypes.Markdown.String()
	}
	var err error
	if c.ChangelogTypeParsed, err = changelogtypes.Parse(c.ChangelogType); err != nil {
		return fmt.Errorf("%s: %v", what, err)
	}

	for i := range c.Relations {
		if err := c.Relations[i].Init(); err != nil {
			return fmt.Errorf("%s: relations[%d]: %v", what, i, err)
		}
	}

	return nil
}

// Relation is a CurseForge project relation.
type Relation struct {
	Slug      string `toml:"slug"`
	ProjectID string `toml:"project_id"`
	Type      string `toml:"type"`

	TypeParsed      relationtypes.Type `toml:"-"`
	ProjectIDParsed int                `toml:"-"`
}

func (r *Relation) Init() error {
	if r.Slug == "" {
		return fmt.Errorf("slug is required")
	}
	if r.ProjectID != "" {
		id, err := strconv.Atoi(r.ProjectID)
		if err != nil || id <= 0 {
			return fmt.Errorf("project_id must be a positive number, got %q", r.ProjectID)
		}
		r.ProjectIDParsed = id
	}
	var err error
	r.TypeParsed, err = relationtypes.Parse(r.Type)
	return err
}

type Modrinth struct {
	PlatformSettings `toml:",squash"`

	VersionNumber   string       `toml:"version_number"`
	Featured        bool         `toml:"featured"`
	Status          string       `toml:"status"`
	RequestedStatus string       `toml:"requested_status"`
	Dependencies    []Dependency `toml:"dependencies"`

	StatusParsed          statustypes.Status `toml:"-"`
	RequestedStatusParsed statustypes.Status `toml:"-"`
}

func (m *Modrinth) Init() error {
	what := "modrinth"

	if err := m.PlatformSettings.init(what); err != nil {
		return err
	}

	if m.Status == "" {
		m.Status = statustypes.Listed.String()
	}
	if m.RequestedStatus == "" {
		m.RequestedStatus = statustypes.Listed.String()
	}

	var err error
	if m.StatusParsed, err = statustypes.Parse(m.Status); err != nil {
		return fmt.Errorf("%s: %v", what, err)
	}
	if m.RequestedStatusParsed, err = statustypes.ParseRequested(m.RequestedStatus); err != nil {
		return fmt.Errorf("%s: %v", what, err)
	}

	for i := range m.Dependencies {
		if err := m.Dependencies[i].Init(); err != nil {
			return fmt.Errorf("%s: dependencies[%d]: %v", what, i, err)
		}
	}

	return nil
}

// Dependency is a Modrinth version dependency.
// If only Slug is set, the project ID is looked up before publishing.
type Dependency struct {
	VersionID      string `toml:"version_id"`
	ProjectID      string `toml:"project_id"`
	Slug           string `toml:"slug"`
	FileName       string `toml:"file_name"`
	DependencyType string `toml:"dependency_type"`

	DependencyTypeParsed dependencytypes.Type `toml:"-"`
}

func (d *Dependency) Init() error {
	if d.VersionID == "" && d.ProjectID == "" && d.Slug == "" && d.FileName == "" {
		return fmt.Errorf("one of version_id, project_id, slug or file_name is required")
	}
	var err error
	d.DependencyTypeParsed, err = dependencytypes.Parse(d.DependencyType)
	return err
}

// validateReleaseType validates s if set and not a template.
// Templated release types are validated when rendered.
func validateReleaseType(s string) error {
	if s == "" || IsTemplate(s) {
		return nil
	}
	_, err := releasetypes.Parse(s)
	return err
}

// IsTemplate reports whether s contains template syntax.
func IsTemplate(s string) bool {
	return strings.Contains(s, "${") || strings.Contains(s, "{{")
}

// cleanList trims the elements in s and removes the empty ones.
func cleanList(s []string) []string {
	var result []string
	for _, v := range s {
		v = strings.TrimSpace(v)
		if v != "" {
			result = append(result, v)
		}
	}
	return result
}
