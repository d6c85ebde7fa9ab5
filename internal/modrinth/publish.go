package modrinth

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	modrinthApi "codeberg.org/jmansfield/go-modrinth/modrinth"
	"github.com/bep/logg"
	"github.com/bep/workers"
	"github.com/gohugoio/modreleaser/internal/config"
	"github.com/gohugoio/modreleaser/internal/releases"
)

// PlatformName is the name used in logs and results.
const PlatformName = "modrinth"

var _ releases.Publisher = (*Publisher)(nil)

// Publisher publishes to Modrinth.
type Publisher struct {
	Config config.Config
	Client Client

	// Used to calculate the file digests.
	Workforce *workers.Workforce

	InfoLog logg.LevelLogger

	projectIDsMu sync.Mutex
	projectIDs   map[string]string
}

func (p *Publisher) Name() string {
	return PlatformName
}

// Publish creates one version with all the files.
func (p *Publisher) Publish(ctx context.Context, rc releases.Context, strategy map[string]string) (releases.Result, error) {
	u, err := NewUpload(p.Config, rc, strategy)
	if err != nil {
		return releases.Result{}, fmt.Errorf("%s: %w", PlatformName, err)
	}

	if err := p.resolveDependencies(ctx, u.Data.Dependencies); err != nil {
		return releases.Result{}, err
	}

	logCtx := p.InfoLog.WithFields(logg.Fields{
		{Name: "project", Value: u.Data.ProjectID},
		{Name: "strategy", Value: releases.StrategyString(strategy)},
	})
	logCtx.Log(logg.String(fmt.Sprintf("Publishing %d file(s)", len(u.Files))))

	v, err := p.Client.CreateVersion(ctx, u.Data, u.Files)
	if err != nil {
		return releases.Result{}, fmt.Errorf("%s: failed to create version %q: %w", PlatformName, u.Data.VersionNumber, err)
	}

	digests, err := releases.CreateDigests(p.Workforce, u.Files...)
	if err != nil {
		return releases.Result{}, fmt.Errorf("%s: %w", PlatformName, err)
	}
	if err := verifyFiles(v, u.Files, digests); err != nil {
		return releases.Result{}, fmt.Errorf("%s: version %s: %w", PlatformName, *v.ID, err)
	}

	logCtx.WithField("id", *v.ID).Log(logg.String("Created version"))

	return releases.Result{
		URL:      VersionURL(u.Data.ProjectID, *v.ID),
		Platform: PlatformName,
		ID:       *v.ID,
		Strategy: strategy,
	}, nil
}

// resolveDependencies looks up the project ID of dependencies given by slug only.
func (p *Publisher) resolveDependencies(ctx context.Context, deps []Dependency) error {
	for i, dep := range deps {
		if dep.Slug == "" || dep.ProjectID != "" || dep.VersionID != "" {
			continue
		}
		id, err := p.projectID(ctx, dep.Slug)
		if err != nil {
			return fmt.Errorf("%s: dependencies[%d]: %w", PlatformName, i, err)
		}
		deps[i].ProjectID = id
	}
	return nil
}

func (p *Publisher) projectID(ctx context.Context, slug string) (string, error) {
	p.projectIDsMu.Lock()
	defer p.projectIDsMu.Unlock()
	if id, found := p.projectIDs[slug]; found {
		return id, nil
	}
	id, err := p.Client.ProjectID(ctx, slug)
	if err != nil {
		return "", err
	}
	if p.projectIDs == nil {
		p.projectIDs = make(map[string]string)
	}
	p.projectIDs[slug] = id
	return id, nil
}

// verifyFiles checks that every uploaded file is listed in v with the digests of the local file.
func verifyFiles(v *modrinthApi.Version, filenames []string, digests map[string]releases.Digest) error {
	remote := make(map[string]*modrinthApi.File, len(v.Files))
	for _, f := range v.Files {
		if f != nil && f.Filename != nil {
			remote[*f.Filename] = f
		}
	}

	for _, filename := range filenames {
		name := filepath.Base(filename)
		f, found := remote[name]
		if !found {
			return fmt.Errorf("file %q is missing in the created version", name)
		}
		d := digests[filename]
		if sha1, ok := f.Hashes["sha1"]; ok && sha1 != d.SHA1 {
			return fmt.Errorf("sha1 mismatch for %q: got %s, expected %s", name, sha1, d.SHA1)
		}
		if sha512, ok := f.Hashes["sha512"]; ok && sha512 != d.SHA512 {
			return fmt.Errorf("sha512 mismatch for %q: got %s, expected %s", name, sha512, d.SHA512)
		}
	}

	return nil
}

// VersionURL returns the public page of a Modrinth version.
func VersionURL(projectID, versionID string) string {
	return fmt.Sprintf("https://modrinth.com/mod/%s/version/%s", projectID, versionID)
}
