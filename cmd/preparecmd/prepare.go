package preparecmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/bep/logg"
	"github.com/gohugoio/modreleaser/cmd/corecmd"
	"github.com/gohugoio/modreleaser/cmd/verifycmd"
	"github.com/gohugoio/modreleaser/internal/curseforge"
	"github.com/gohugoio/modreleaser/internal/releases"
	"github.com/peterbourgon/ff/v3/ffcli"
)

const commandName = "prepare"

// New returns a usable ffcli.Command for the prepare subcommand.
func New(core *corecmd.Core) *ffcli.Command {
	fs := flag.NewFlagSet(corecmd.CommandName+" "+commandName, flag.ExitOnError)

	preparer := NewPreparer(core)

	core.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       commandName,
		ShortUsage: corecmd.CommandName + " prepare [flags]",
		ShortHelp:  "Verify and look up the CurseForge game versions.",
		FlagSet:    fs,
		Exec:       preparer.Exec,
	}
}

// NewPreparer returns a new Preparer.
func NewPreparer(core *corecmd.Core) *Preparer {
	return &Preparer{
		core:     core,
		Verifier: verifycmd.NewVerifier(core),
	}
}

// Preparer handles the prepare command.
type Preparer struct {
	core    *corecmd.Core
	infoLog logg.LevelLogger
	warnLog logg.LevelLogger

	Verifier *verifycmd.Verifier

	// If set, CurseForge errors are logged as warnings and left to the upload to report.
	SkipPlatformErrors bool

	// Set if CurseForge is enabled and the lookup succeeded.
	GameVersions *curseforge.GameVersionMap
}

func (p *Preparer) Init() error {
	p.infoLog = p.core.InfoLog.WithField("cmd", commandName)
	p.warnLog = p.core.WarnLog.WithField("cmd", commandName)
	return nil
}

func (p *Preparer) Exec(ctx context.Context, args []string) error {
	if err := p.Init(); err != nil {
		return err
	}

	if err := p.Verifier.Exec(ctx, args); err != nil {
		return err
	}

	if err := p.core.InitRelease(); err != nil {
		return fmt.Errorf("%s: %w", commandName, err)
	}

	p.infoLog.WithFields(logg.Fields{
		{Name: "version", Value: p.core.Release.NextRelease.Version},
		{Name: "tag", Value: p.core.Release.NextRelease.GitTag},
	}).Log(logg.String("Preparing release"))

	cf := p.core.Platform(curseforge.PlatformName)
	if !cf.Enabled() {
		return nil
	}

	client, err := curseforge.NewClient(cf.Token)
	if err != nil {
		return err
	}

	p.GameVersions, err = curseforge.FetchGameVersionMap(ctx, client)
	if err != nil {
		// Publish without game versions.
		p.warnLog.Log(logg.String(fmt.Sprintf("Failed to look up CurseForge game versions: %s", err)))
		p.GameVersions = nil
		return nil
	}

	for _, strategy := range p.core.Config.StrategiesOrDefault() {
		ids, unknown, err := curseforge.ResolveGameVersionIDs(p.core.Config, p.core.Release, strategy, p.GameVersions)
		if err != nil {
			err = fmt.Errorf("%s: %w", curseforge.PlatformName, err)
			if !p.SkipPlatformErrors {
				return err
			}
			p.warnLog.WithField("strategy", releases.StrategyString(strategy)).Log(logg.String(err.Error()))
			continue
		}
		logCtx := p.infoLog.WithField("strategy", releases.StrategyString(strategy))
		logCtx.WithField("ids", fmt.Sprint(ids)).Log(logg.String("CurseForge game versions"))
		if len(unknown) > 0 {
			p.warnLog.WithField("strategy", releases.StrategyString(strategy)).Log(logg.String(fmt.Sprintf("Unknown CurseForge game versions: %s", strings.Join(unknown, ", "))))
		}
	}

	return nil
}
