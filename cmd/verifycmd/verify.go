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

package verifycmd

import (
	"context"
	"flag"

	"github.com/bep/logg"
	"github.com/gohugoio/modreleaser/cmd/corecmd"
	"github.com/gohugoio/modreleaser/internal/releases"
	"github.com/peterbourgon/ff/v3/ffcli"
)

const commandName = "verify"

// New returns a usable ffcli.Command for the verify subcommand.
func New(core *corecmd.Core) *ffcli.Command {
	fs := flag.NewFlagSet(corecmd.CommandName+" "+commandName, flag.ExitOnError)

	verifier := NewVerifier(core)

	core.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       commandName,
		ShortUsage: corecmd.CommandName + " verify [flags]",
		ShortHelp:  "Validate the config and report where the release will be published.",
		FlagSet:    fs,
		Exec:       verifier.Exec,
	}
}

// NewVerifier returns a new Verifier.
func NewVerifier(core *corecmd.Core) *Verifier {
	return &Verifier{
		core: core,
	}
}

// Verifier handles the verify command.
// The config itself is validated when loaded.
type Verifier struct {
	core    *corecmd.Core
	infoLog logg.LevelLogger
	warnLog logg.LevelLogger

	// The platforms that will be published to.
	Enabled []corecmd.Platform
}

func (v *Verifier) Init() error {
	v.infoLog = v.core.InfoLog.WithField("cmd", commandName)
	v.warnLog = v.core.WarnLog.WithField("cmd", commandName)
	return nil
}

func (v *Verifier) Exec(ctx context.Context, args []string) error {
	if err := v.Init(); err != nil {
		return err
	}

	v.Enabled = nil
	for _, p := range v.core.Platforms() {
		if !p.Enabled() {
			v.infoLog.WithField("reason", p.SkipReason()).Log(logg.String("Skipping " + p.Name))
			continue
		}
		v.Enabled = append(v.Enabled, p)
		v.infoLog.WithField("strategies", len(v.core.Config.StrategiesOrDefault())).Log(logg.String("Will publish to " + p.Name))
	}

	if len(v.Enabled) == 0 {
		v.warnLog.Log(logg.String("Nothing to publish"))
	}

	for _, strategy := range v.core.Config.Strategies {
		v.infoLog.WithField("strategy", releases.StrategyString(strategy)).Log(logg.String("Strategy"))
	}

	return nil
}
