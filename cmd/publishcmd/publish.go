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

package publishcmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"sync"

	"github.com/bep/logg"
	"github.com/gohugoio/modreleaser/cmd/corecmd"
	"github.com/gohugoio/modreleaser/cmd/preparecmd"
	"github.com/gohugoio/modreleaser/internal/common/errorsh"
	"github.com/gohugoio/modreleaser/internal/curseforge"
	"github.com/gohugoio/modreleaser/internal/modrinth"
	"github.com/gohugoio/modreleaser/internal/releases"
	"github.com/peterbourgon/ff/v3/ffcli"
)

const commandName = "publish"

// New returns a usable ffcli.Command for the publish subcommand.
func New(core *corecmd.Core) *ffcli.Command {
	fs := flag.NewFlagSet(corecmd.CommandName+" "+commandName, flag.ExitOnError)

	publisher := NewPublisher(core)

	core.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       commandName,
		ShortUsage: corecmd.CommandName + " publish [flags]",
		ShortHelp:  "Verify, prepare and upload the release files to CurseForge and Modrinth.",
		LongHelp: `Verify, prepare and upload the release files to CurseForge and Modrinth.

One JSON line, e.g. {"url":"https://modrinth.com/mod/x/version/y"}, is written to stdout for every published release.
The log is also written to stdout, so either use -quiet or read only the lines starting with {.
Warnings and errors go to stderr.`,
		FlagSet:    fs,
		Exec:       publisher.Exec,
	}
}

// NewPublisher returns a new Publisher.
func NewPublisher(core *corecmd.Core) *Publisher {
	preparer := preparecmd.NewPreparer(core)
	preparer.SkipPlatformErrors = true
	return &Publisher{
		core:     core,
		preparer: preparer,
	}
}

// Publisher handles the publish command.
type Publisher struct {
	core     *corecmd.Core
	preparer *preparecmd.Preparer

	infoLog  logg.LevelLogger
	errorLog logg.LevelLogger
}

// Init initializes the publisher.
func (p *Publisher) Init() error {
	p.infoLog = p.core.InfoLog.WithField("cmd", commandName)
	p.errorLog = p.core.ErrorLog.WithField("cmd", commandName)
	return nil
}

// Exec publishes every strategy to every enabled platform.
// Each platform and strategy is published on its own; a failure is reported but does not stop the others.
func (p *Publisher) Exec(ctx context.Context, args []string) error {
	if err := p.Init(); err != nil {
		return err
	}

	if err := p.preparer.Exec(ctx, args); err != nil {
		return err
	}

	publishers, err := p.publishers()
	if err != nil {
		return fmt.Errorf("%s: %w", commandName, err)
	}
	if len(publishers) == 0 {
		return nil
	}

	var (
		mu   sync.Mutex
		errs []error
	)

	rc := p.core.Release
	r, _ := p.core.Workforce.Start(ctx)

	for _, strategy := range p.core.Config.StrategiesOrDefault() {
		for _, publisher := range publishers {
			strategy, publisher := strategy, publisher
			r.Run(func() error {
				logCtx := p.infoLog.WithFields(logg.Fields{
					{Name: "platform", Value: publisher.Name()},
					{Name: "strategy", Value: releases.StrategyString(strategy)},
				})

				result, err := publisher.Publish(ctx, rc, strategy)
				if err == nil {
					err = p.core.WriteResult(result)
				}
				if err != nil {
					if !errorsh.IsShutdownError(err) {
						p.errorLog.WithField("strategy", releases.StrategyString(strategy)).Log(logg.String(err.Error()))
					}
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					return nil
				}

				logCtx.WithField("url", result.URL).Log(logg.String("Published"))
				return nil
			})
		}
	}

	if err := r.Wait(); err != nil {
		return err
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %w", commandName, err)
	}

	return nil
}

func (p *Publisher) publishers() ([]releases.Publisher, error) {
	var publishers []releases.Publisher

	for _, platform := range p.preparer.Verifier.Enabled {
		switch platform.Name {
		case curseforge.PlatformName:
			client, err := curseforge.NewClient(platform.Token)
			if err != nil {
				return nil, err
			}
			publishers = append(publishers, &curseforge.Publisher{
				Config:       p.core.Config,
				Client:       client,
				GameVersions: p.preparer.GameVersions,
				InfoLog:      p.core.InfoLog.WithField("cmd", curseforge.PlatformName),
				WarnLog:      p.core.WarnLog.WithField("cmd", curseforge.PlatformName),
			})
		case modrinth.PlatformName:
			client, err := modrinth.NewClient(platform.Token)
			if err != nil {
				return nil, err
			}
			publishers = append(publishers, &modrinth.Publisher{
				Config:    p.core.Config,
				Client:    client,
				Workforce: p.core.DigestWorkforce,
				InfoLog:   p.core.InfoLog.WithField("cmd", modrinth.PlatformName),
			})
		}
	}

	return publishers, nil
}
