package curseforge

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bep/logg"
	"github.com/gohugoio/modreleaser/internal/config"
	"github.com/gohugoio/modreleaser/internal/releases"
)

// PlatformName is the name used in logs and results.
const PlatformName = "curseforge"

var _ releases.Publisher = (*Publisher)(nil)

// Publisher publishes to CurseForge.
type Publisher struct {
	Config config.Config
	Client Client

	// Fetched once before publishing. May be nil.
	GameVersions *GameVersionMap

	InfoLog logg.LevelLogger
	WarnLog logg.LevelLogger
}

func (p *Publisher) Name() string {
	return PlatformName
}

// Publish uploads the primary file first and then the remaining files linked to it.
// The secondary files are uploaded one by one as they need the primary file's ID.
func (p *Publisher) Publish(ctx context.Context, rc releases.Context, strategy map[string]string) (releases.Result, error) {
	u, err := NewUpload(p.Config, rc, strategy, p.GameVersions)
	if err != nil {
		return releases.Result{}, fmt.Errorf("%s: %w", PlatformName, err)
	}

	logCtx := p.InfoLog.WithFields(logg.Fields{
		{Name: "project", Value: u.ProjectID},
		{Name: "strategy", Value: releases.StrategyString(strategy)},
	})

	if len(u.UnknownGameVersions) > 0 {
		p.WarnLog.WithField("project", u.ProjectID).Log(logg.String(fmt.Sprintf("Unknown game versions: %s", strings.Join(u.UnknownGameVersions, ", "))))
	}

	files := u.Files.Unique()
	logCtx.Log(logg.String(fmt.Sprintf("Publishing %d file(s)", len(files))))

	primaryID, err := p.Client.UploadFile(ctx, u.ProjectID, u.Metadata, u.Files.Primary)
	if err != nil {
		return releases.Result{}, fmt.Errorf("%s: failed to upload %q: %w", PlatformName, filepath.Base(u.Files.Primary), err)
	}
	logCtx.WithFields(logg.Fields{
		{Name: "file", Value: filepath.Base(u.Files.Primary)},
		{Name: "id", Value: primaryID},
	}).Log(logg.String("Uploaded primary file"))

	secondary := u.Metadata.Secondary(primaryID)
	for _, filename := range u.Files.Secondary() {
		id, err := p.Client.UploadFile(ctx, u.ProjectID, secondary, filename)
		if err != nil {
			return releases.Result{}, fmt.Errorf("%s: failed to upload %q: %w", PlatformName, filepath.Base(filename), err)
		}
		logCtx.WithFields(logg.Fields{
			{Name: "file", Value: filepath.Base(filename)},
			{Name: "id", Value: id},
		}).Log(logg.String("Uploaded file"))
	}

	return releases.Result{
		URL:      FileURL(u.ProjectID, primaryID),
		Platform: PlatformName,
		ID:       strconv.Itoa(primaryID),
		Strategy: strategy,
	}, nil
}

// FileURL returns the public page of a CurseForge file.
func FileURL(projectID string, fileID int) string {
	return fmt.Sprintf("https://www.curseforge.com/minecraft/mc-mods/%s/files/%d", projectID, fileID)
}
