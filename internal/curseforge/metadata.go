package curseforge

import (
	"fmt"

	"github.com/gohugoio/modreleaser/internal/artifacts"
	"github.com/gohugoio/modreleaser/internal/config"
	"github.com/gohugoio/modreleaser/internal/releases"
)

// Metadata is the metadata part of a CurseForge file upload.
type Metadata struct {
	Changelog                string     `json:"changelog"`
	ChangelogType            string     `json:"changelogType"`
	DisplayName              string     `json:"displayName,omitempty"`
	ParentFileID             int        `json:"parentFileID,omitempty"`
	GameVersions             []int      `json:"gameVersions,omitempty"`
	ReleaseType              string     `json:"releaseType"`
	IsMarkedForManualRelease bool       `json:"isMarkedForManualRelease,omitempty"`
	Relations                *Relations `json:"relations,omitempty"`
}

// Secondary returns the metadata for a file linked to the file with the given ID.
// CurseForge does not accept gameVersions for those.
func (m Metadata) Secondary(parentFileID int) Metadata {
	m.ParentFileID = parentFileID
	m.GameVersions = nil
	return m
}

type Relations struct {
	Projects []ProjectRelation `json:"projects"`
}

type ProjectRelation struct {
	Slug      string `json:"slug"`
	ProjectID int    `json:"projectID,omitempty"`
	Type      string `json:"type"`
}

// Upload is everything needed to upload one release to CurseForge.
type Upload struct {
	ProjectID string
	Metadata  Metadata
	Files     artifacts.Set

	// Game version, loader and Java names CurseForge does not know about.
	UnknownGameVersions []string
}

// NewUpload resolves the files and builds the metadata for the given strategy.
// gameVersions may be nil, in which case no game versions are sent.
func NewUpload(cfg config.Config, rc releases.Context, strategy map[string]string, gameVersions *GameVersionMap) (Upload, error) {
	cf := cfg.CurseForge
	if cf == nil {
		return Upload{}, fmt.Errorf("curseforge: not configured")
	}

	r := cfg.NewResolver(cf.PlatformSettings, EnvPrefix, rc.Env, rc.TemplateContext(strategy))

	var (
		u   Upload
		err error
	)
	u.ProjectID = cf.ProjectID

	globs, err := r.Globs()
	if err != nil {
		return u, err
	}
	primaryGlobs, err := r.PrimaryFileGlobs()
	if err != nil {
		return u, err
	}
	if u.Files, err = artifacts.Resolve(rc.Cwd, globs, primaryGlobs); err != nil {
		return u, err
	}

	m := Metadata{
		ChangelogType:            cf.ChangelogTypeParsed.String(),
		IsMarkedForManualRelease: cf.IsMarkedForManualRelease,
	}

	if m.DisplayName, err = r.DisplayName(rc.NextRelease.Name); err != nil {
		return u, err
	}
	if m.Changelog, err = r.Changelog(rc.NextRelease.Notes); err != nil {
		return u, err
	}
	releaseType, err := r.ReleaseType()
	if err != nil {
		return u, err
	}
	m.ReleaseType = releaseType.String()

	sel, err := selection(r, cf)
	if err != nil {
		return u, err
	}
	var ids GameVersionIDs
	ids, u.UnknownGameVersions = gameVersions.IDs(sel)
	m.GameVersions = ids

	if len(cf.Relations) > 0 {
		m.Relations = &Relations{}
		for _, rel := range cf.Relations {
			m.Relations.Projects = append(m.Relations.Projects, ProjectRelation{
				Slug:      rel.Slug,
				ProjectID: rel.ProjectIDParsed,
				Type:      rel.TypeParsed.APIName(),
			})
		}
	}

	u.Metadata = m

	return u, nil
}

// ResolveGameVersionIDs resolves the game version IDs for the given strategy.
// It returns the names not found in gameVersions.
func ResolveGameVersionIDs(cfg config.Config, rc releases.Context, strategy map[string]string, gameVersions *GameVersionMap) (GameVersionIDs, []string, error) {
	cf := cfg.CurseForge
	if cf == nil {
		return nil, nil, fmt.Errorf("curseforge: not configured")
	}
	r := cfg.NewResolver(cf.PlatformSettings, EnvPrefix, rc.Env, rc.TemplateContext(strategy))
	sel, err := selection(r, cf)
	if err != nil {
		return nil, nil, err
	}
	ids, unknown := gameVersions.IDs(sel)
	return ids, unknown, nil
}

func selection(r config.Resolver, cf *config.CurseForge) (Selection, error) {
	var (
		sel Selection
		err error
	)
	if sel.GameVersions, err = r.GameVersions(); err != nil {
		return sel, err
	}
	if sel.ModLoaders, err = r.ModLoaders(); err != nil {
		return sel, err
	}
	if sel.JavaVersions, err = r.List("java_versions", cf.JavaVersions); err != nil {
		return sel, err
	}
	if sel.GameVersionsForPlugins, err = r.List("game_versions_for_plugins", cf.GameVersionsForPlugins); err != nil {
		return sel, err
	}
	if sel.GameVersionsForAddon, err = r.List("game_versions_for_addon", cf.GameVersionsForAddon); err != nil {
		return sel, err
	}
	if sel.Environments, err = r.List("environments", cf.Environments); err != nil {
		return sel, err
	}
	return sel, nil
}
