package modrinth

import (
	"fmt"
	"path/filepath"

	"github.com/gohugoio/modreleaser/internal/artifacts"
	"github.com/gohugoio/modreleaser/internal/config"
	"github.com/gohugoio/modreleaser/internal/releases"
)

// VersionData is the data part of a create version request.
type VersionData struct {
	ProjectID       string       `json:"project_id"`
	Name            string       `json:"name"`
	VersionNumber   string       `json:"version_number"`
	Changelog       string       `json:"changelog"`
	Dependencies    []Dependency `json:"dependencies"`
	GameVersions    []string     `json:"game_versions"`
	VersionType     string       `json:"version_type"`
	Loaders         []string     `json:"loaders"`
	Featured        bool         `json:"featured"`
	Status          string       `json:"status"`
	RequestedStatus string       `json:"requested_status"`
	FileParts       []string     `json:"file_parts"`
	PrimaryFile     string       `json:"primary_file"`
}

type Dependency struct {
	VersionID      string `json:"version_id,omitempty"`
	ProjectID      string `json:"project_id,omitempty"`
	FileName       string `json:"file_name,omitempty"`
	DependencyType string `json:"dependency_type"`

	// Resolved to ProjectID before publishing.
	Slug string `json:"-"`
}

// Upload is everything needed to create one Modrinth version.
type Upload struct {
	Data VersionData

	// The files in part order, primary first.
	Files []string
}

// NewUpload resolves the files and builds the version data for the given strategy.
func NewUpload(cfg config.Config, rc releases.Context, strategy map[string]string) (Upload, error) {
	mr := cfg.Modrinth
	if mr == nil {
		return Upload{}, fmt.Errorf("modrinth: not configured")
	}

	r := cfg.NewResolver(mr.PlatformSettings, EnvPrefix, rc.Env, rc.TemplateContext(strategy))

	var u Upload

	globs, err := r.Globs()
	if err != nil {
		return u, err
	}
	primaryGlobs, err := r.PrimaryFileGlobs()
	if err != nil {
		return u, err
	}
	set, err := artifacts.Resolve(rc.Cwd, globs, primaryGlobs)
	if err != nil {
		return u, err
	}
	u.Files = set.Unique()

	// Modrinth identifies the files of a version by name.
	seen := make(map[string]string, len(u.Files))
	for _, filename := range u.Files {
		name := filepath.Base(filename)
		if other, found := seen[name]; found {
			return u, fmt.Errorf("files %q and %q have the same name", other, filename)
		}
		seen[name] = filename
	}

	d := VersionData{
		ProjectID:       mr.ProjectID,
		Featured:        mr.Featured,
		Status:          mr.StatusParsed.String(),
		RequestedStatus: mr.RequestedStatusParsed.String(),
		Dependencies:    []Dependency{},
		// The primary file is always first.
		PrimaryFile: FilePartName(0),
	}

	for i := range u.Files {
		d.FileParts = append(d.FileParts, FilePartName(i))
	}

	if d.Name, err = r.DisplayName(rc.NextRelease.Name); err != nil {
		return u, err
	}
	if d.VersionNumber, err = r.VersionNumber(mr.VersionNumber, rc.NextRelease.Version); err != nil {
		return u, err
	}
	if d.Changelog, err = r.Changelog(rc.NextRelease.Notes); err != nil {
		return u, err
	}
	versionType, err := r.ReleaseType()
	if err != nil {
		return u, err
	}
	d.VersionType = versionType.String()

	if d.GameVersions, err = r.GameVersions(); err != nil {
		return u, err
	}
	if d.Loaders, err = r.ModLoaders(); err != nil {
		return u, err
	}
	if d.GameVersions == nil {
		d.GameVersions = []string{}
	}
	if d.Loaders == nil {
		d.Loaders = []string{}
	}

	for _, dep := range mr.Dependencies {
		d.Dependencies = append(d.Dependencies, Dependency{
			VersionID:      dep.VersionID,
			ProjectID:      dep.ProjectID,
			FileName:       dep.FileName,
			DependencyType: dep.DependencyTypeParsed.String(),
			Slug:           dep.Slug,
		})
	}

	u.Data = d

	return u, nil
}
