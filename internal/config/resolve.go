package config

import (
	"fmt"
	"strings"

	"github.com/gohugoio/modreleaser/internal/common/templ"
	"github.com/gohugoio/modreleaser/internal/releases/releasetypes"
)

// Resolver resolves the effective values of the settings for one platform.
//
// Each value is taken from the first non-empty source in a fixed precedence
// chain and rendered as a template against Context. The chain is always
// platform setting, global setting, then environment variables where supported.
type Resolver struct {
	Global   Config
	Platform PlatformSettings

	// The platform prefix used for environment variables, e.g. CURSEFORGE.
	EnvPrefix string
	Env       map[string]string

	Context templ.Context
}

// NewResolver creates a new Resolver for the given platform settings.
func (c Config) NewResolver(platform PlatformSettings, envPrefix string, env map[string]string, ctx templ.Context) Resolver {
	return Resolver{
		Global:    c,
		Platform:  platform,
		EnvPrefix: envPrefix,
		Env:       env,
		Context:   ctx,
	}
}

func (r Resolver) envPlatform(name string) string {
	return r.Env[r.EnvPrefix+"_"+name]
}

// DisplayName resolves the display name:
// platform, global, <PLATFORM>_DISPLAY_NAME, DISPLAY_NAME and then fallback.
func (r Resolver) DisplayName(fallback string) (string, error) {
	return r.resolve("display_name", fallback,
		r.Platform.DisplayName,
		r.Global.DisplayName,
		r.envPlatform("DISPLAY_NAME"),
		r.Env["DISPLAY_NAME"],
	)
}

// VersionNumber resolves a version number:
// configured, <PLATFORM>_VERSION_NUMBER and then fallback.
func (r Resolver) VersionNumber(configured, fallback string) (string, error) {
	return r.resolve("version_number", fallback,
		configured,
		r.envPlatform("VERSION_NUMBER"),
	)
}

// Changelog returns the rendered platform changelog, or notes if not set.
// The release notes are never rendered as a template.
func (r Resolver) Changelog(notes string) (string, error) {
	return r.resolve("changelog", notes, r.Platform.Changelog)
}

// ReleaseType resolves the release type: platform, global and then release.
func (r Resolver) ReleaseType() (releasetypes.Type, error) {
	s, err := r.resolve("release_type", releasetypes.Release.String(), r.Platform.ReleaseType, r.Global.ReleaseType)
	if err != nil {
		return releasetypes.InvalidType, err
	}
	t, err := releasetypes.Parse(s)
	if err != nil {
		return releasetypes.InvalidType, fmt.Errorf("release_type: %v", err)
	}
	return t, nil
}

// ModLoaders resolves the mod loaders:
// platform, global, <PLATFORM>_MOD_LOADERS and MOD_LOADERS (both comma separated).
// It returns nil if none is set.
func (r Resolver) ModLoaders() ([]string, error) {
	return r.resolveList("mod_loaders",
		r.Platform.ModLoaders,
		r.Global.ModLoaders,
		splitComma(r.envPlatform("MOD_LOADERS")),
		splitComma(r.Env["MOD_LOADERS"]),
	)
}

// GameVersions resolves the game versions: platform and then global.
// It returns nil if none is set.
func (r Resolver) GameVersions() ([]string, error) {
	return r.resolveList("game_versions", r.Platform.GameVersions, r.Global.GameVersions)
}

// Globs resolves the file globs: platform and then global.
// It returns nil if none is set, meaning the default globs.
func (r Resolver) Globs() ([]string, error) {
	return r.resolveList("glob", r.Platform.Glob, r.Global.Glob)
}

// PrimaryFileGlobs resolves the primary file globs: platform and then global.
func (r Resolver) PrimaryFileGlobs() ([]string, error) {
	return r.resolveList("primary_file_glob", r.Platform.PrimaryFileGlob, r.Global.PrimaryFileGlob)
}

// List renders the first non-empty list in sources.
func (r Resolver) List(what string, sources ...[]string) ([]string, error) {
	return r.resolveList(what, sources...)
}

func (r Resolver) resolve(what, fallback string, sources ...string) (string, error) {
	s, found, err := templ.Resolve(r.Context, sources...)
	if err != nil {
		return "", fmt.Errorf("%s: %w", what, err)
	}
	s = strings.TrimSpace(s)
	if !found || s == "" {
		return fallback, nil
	}
	return s, nil
}

func (r Resolver) resolveList(what string, sources ...[]string) ([]string, error) {
	l, _, err := templ.ResolveList(r.Context, sources...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", what, err)
	}
	return cleanList(l), nil
}

func splitComma(s string) []string {
	if s == "" {
		return nil
	}
	return cleanList(strings.Split(s, ","))
}
