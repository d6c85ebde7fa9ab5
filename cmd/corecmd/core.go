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

package corecmd

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/bep/helpers/envhelpers"
	"github.com/bep/logg"
	"github.com/bep/logg/handlers/multi"
	"github.com/bep/workers"
	"github.com/gohugoio/modreleaser/internal/common/logging"
	"github.com/gohugoio/modreleaser/internal/config"
	"github.com/gohugoio/modreleaser/internal/curseforge"
	"github.com/gohugoio/modreleaser/internal/modrinth"
	"github.com/gohugoio/modreleaser/internal/releases"
	"github.com/gohugoio/modreleaser/internal/releases/changelog"
	"github.com/pelletier/go-toml/v2"
	"github.com/peterbourgon/ff/v3/ffcli"
)

type CommandHandler interface {
	Exec(ctx context.Context, args []string) error
	Init() error
}

const (

	// CommandName is the main command's binary name.
	CommandName = "modreleaser"

	// The prefix used for any flag overrides.
	EnvPrefix = "MODRELEASER"

	// The env file to look for in the current directory.
	EnvFile = "modreleaser.env"
)

// New constructs a usable ffcli.Command and an empty Config. The config
// will be set after a successful parse. The caller must
func New() (*ffcli.Command, *Core) {
	var cfg Core

	fs := flag.NewFlagSet(CommandName, flag.ExitOnError)

	cfg.RegisterFlags(fs)

	return &ffcli.Command{
		Name:       CommandName,
		ShortUsage: CommandName + " [flags] <subcommand> [flags] [<arg>...]",
		FlagSet:    fs,
		Exec:       cfg.Exec,
	}, &cfg
}

// Core holds common config settings and objects.
type Core struct {
	// The parsed config.
	Config config.Config

	// The common Info logger.
	InfoLog logg.LevelLogger

	// The common Warn logger.
	WarnLog logg.LevelLogger

	// The common Error logger.
	ErrorLog logg.LevelLogger

	// No log output to stdout.
	Quiet bool

	// Trial run, nothing is uploaded.
	Try bool

	// The release to publish.
	Version      string
	Name         string
	Notes        string
	NotesFile    string
	NotesFromGit bool
	Tag          string
	GitHead      string
	Channel      string
	ReleaseType  string

	// The release context, set by InitRelease.
	Release releases.Context

	// Abolute path to the project root.
	// Globs are resolved relative to this.
	ProjectDir string

	// The config file to use.
	ConfigFile string

	// The environment, OS env merged with the env file.
	Env map[string]string

	// Number of publish jobs running in parallel. Defaults to 1.
	NumWorkers int

	// Global timeout for all commands.
	Timeout time.Duration

	// The global workforce.
	Workforce *workers.Workforce

	// Used for file digests, which may be created from jobs running in Workforce.
	DigestWorkforce *workers.Workforce

	// Where the results are written, defaults to os.Stdout.
	Stdout io.Writer

	resultsMu sync.Mutex
}

// Exec function for this command.
func (c *Core) Exec(context.Context, []string) error {
	// The root command has no meaning, so if it gets executed,
	// display the usage text to the user instead.
	return flag.ErrHelp
}

// RegisterFlags registers the flag fields into the provided flag.FlagSet. This
// helper function allows subcommands to register the root flags into their
// flagsets, creating "global" flags that can be passed after any subcommand at
// the commandline.
func (c *Core) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Version, "version", "", "The version to release (e.g. 1.2.0). Required by prepare and publish.")
	fs.StringVar(&c.Name, "name", "", "The release name. Defaults to v<version>.")
	fs.StringVar(&c.Notes, "notes", "", "The release notes.")
	fs.StringVar(&c.NotesFile, "notes-file", "", "Read the release notes from this file.")
	fs.BoolVar(&c.NotesFromGit, "notes-from-git", false, "Create the release notes from the Git log if none are given.")
	fs.StringVar(&c.Tag, "tag", "", "The name of the release tag. Defaults to v<version>.")
	fs.StringVar(&c.GitHead, "git-head", "", "The Git commit of the release.")
	fs.StringVar(&c.Channel, "channel", "", "The release channel (e.g. beta).")
	fs.StringVar(&c.ReleaseType, "type", "", "The kind of release (e.g. minor).")
	fs.StringVar(&c.ProjectDir, "cwd", "", "The project directory. Defaults to the current directory.")
	fs.StringVar(&c.ConfigFile, "config", "modreleaser.toml", "The config file to use.")
	fs.IntVar(&c.NumWorkers, "workers", 1, "Number of platform and strategy uploads to run in parallel.")
	fs.DurationVar(&c.Timeout, "timeout", 55*time.Minute, "Global timeout.")
	fs.BoolVar(&c.Quiet, "quiet", false, "Don't output any logs to stdout.")
	fs.BoolVar(&c.Try, "try", false, "Trial run, nothing is uploaded.")
}

// PreInit is called before the flags are parsed.
func (c *Core) PreInit() error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("error getting working directory: %w", err)
	}
	c.ProjectDir = wd
	return nil
}

func (c *Core) Init() error {
	if c.ProjectDir == "" {
		if err := c.PreInit(); err != nil {
			return err
		}
	}
	if !filepath.IsAbs(c.ProjectDir) {
		abs, err := filepath.Abs(c.ProjectDir)
		if err != nil {
			return err
		}
		c.ProjectDir = abs
	}

	env, err := loadEnv(filepath.Join(c.ProjectDir, EnvFile), os.Environ())
	if err != nil {
		return err
	}
	c.Env = env

	var stdOut io.Writer
	if c.Quiet {
		stdOut = io.Discard
	} else {
		stdOut = os.Stdout
	}

	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}

	// Configure logging.
	var logHandler logg.Handler
	if logging.IsTerminal(os.Stdout) {
		logHandler = logging.NewDefaultHandler(stdOut, os.Stderr)
	} else {
		logHandler = logging.NewNoColoursHandler(stdOut, os.Stderr)
	}

	logHandler = multi.New(
		// Mask the tokens and replace the project dir (usually long path) in the log messages with a shorter version.
		logging.Replacer(c.logReplacer()), logHandler,
	)

	l := logg.New(
		logg.Options{
			Level:   logg.LevelInfo,
			Handler: logHandler,
		},
	)

	c.InfoLog = l.WithLevel(logg.LevelInfo).WithField("cmd", "core")
	c.WarnLog = l.WithLevel(logg.LevelWarn).WithField("cmd", "core")
	c.ErrorLog = l.WithLevel(logg.LevelError).WithField("cmd", "core")

	if c.NumWorkers < 1 {
		c.NumWorkers = 1
	}

	c.Workforce = workers.New(c.NumWorkers)
	c.DigestWorkforce = workers.New(runtime.NumCPU())

	if !filepath.IsAbs(c.ConfigFile) {
		c.ConfigFile = filepath.Join(c.ProjectDir, c.ConfigFile)
	}

	f, err := os.Open(c.ConfigFile)
	if err != nil {
		return fmt.Errorf("error opening config file %q: %w", c.ConfigFile, err)
	}
	defer f.Close()

	c.Config, err = config.DecodeAndApplyDefaults(f)

	if err != nil {
		msg := "error decoding config file"
		switch v := err.(type) {
		case *toml.DecodeError:
			line, col := v.Position()
			return fmt.Errorf("%s %q:%d:%d %w:\n%s", msg, c.ConfigFile, line, col, err, v.String())
		case *toml.StrictMissingError:
			return fmt.Errorf("%s %q: %w:\n%s", msg, c.ConfigFile, err, v.String())
		}
		return fmt.Errorf("%s %q: %w", msg, c.ConfigFile, err)
	}

	c.InfoLog.WithField("file", c.ConfigFile).Log(logg.String("Loaded config"))

	return nil
}

// InitRelease creates the release context from the flags.
func (c *Core) InitRelease() error {
	if c.Version == "" {
		return fmt.Errorf("flag -version is required")
	}

	notes := c.Notes
	if notes == "" && c.NotesFile != "" {
		filename := c.NotesFile
		if !filepath.IsAbs(filename) {
			filename = filepath.Join(c.ProjectDir, filename)
		}
		b, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("error reading release notes: %w", err)
		}
		notes = string(b)
	}

	c.Release = releases.Context{
		NextRelease: releases.NextRelease{
			Version: c.Version,
			Name:    c.Name,
			Notes:   notes,
			GitTag:  c.Tag,
			GitHead: c.GitHead,
			Channel: c.Channel,
			Type:    c.ReleaseType,
		},
		Cwd: c.ProjectDir,
		Env: c.Env,
	}

	if err := c.Release.Init(); err != nil {
		return err
	}

	if c.Release.NextRelease.Notes == "" && c.NotesFromGit {
		notes, err := changelog.Notes(changelog.Options{
			Tag:      c.Release.NextRelease.GitTag,
			RepoPath: c.ProjectDir,
		})
		if err != nil {
			return fmt.Errorf("error creating release notes from Git: %w", err)
		}
		c.Release.NextRelease.Notes = notes
	}

	return nil
}

// Platform is a platform that can be published to.
type Platform struct {
	Name       string
	TokenEnv   string
	Token      string
	Configured bool
}

// Enabled reports whether the release will be published to this platform.
func (p Platform) Enabled() bool {
	return p.Configured && p.Token != ""
}

// SkipReason describes why the platform is not enabled.
func (p Platform) SkipReason() string {
	switch {
	case !p.Configured:
		return fmt.Sprintf("no [%s] section in config", p.Name)
	case p.Token == "":
		return fmt.Sprintf("%s is not set", p.TokenEnv)
	default:
		return ""
	}
}

// Platforms returns all the supported platforms in publish order.
func (c *Core) Platforms() []Platform {
	platforms := []Platform{
		{Name: curseforge.PlatformName, TokenEnv: curseforge.TokenEnvVar, Configured: c.Config.CurseForge != nil},
		{Name: modrinth.PlatformName, TokenEnv: modrinth.TokenEnvVar, Configured: c.Config.Modrinth != nil},
	}
	for i, p := range platforms {
		if c.Try && p.Configured {
			platforms[i].Token = releases.FakeToken
		} else {
			platforms[i].Token = c.Env[p.TokenEnv]
		}
	}
	return platforms
}

// Platform returns the platform with the given name.
func (c *Core) Platform(name string) Platform {
	for _, p := range c.Platforms() {
		if p.Name == name {
			return p
		}
	}
	panic(fmt.Sprintf("unknown platform %q", name))
}

// WriteResult writes r as a JSON line to Stdout.
func (c *Core) WriteResult(r releases.Result) error {
	b, err := json.Marshal(r)
	if err != nil {
		return err
	}
	c.resultsMu.Lock()
	defer c.resultsMu.Unlock()
	_, err = fmt.Fprintln(c.Stdout, string(b))
	return err
}

func (c *Core) Close() error {
	return nil
}

func (c *Core) logReplacer() *strings.Replacer {
	var oldnew []string
	for _, name := range []string{curseforge.TokenEnvVar, modrinth.TokenEnvVar} {
		if token := c.Env[name]; token != "" && token != releases.FakeToken {
			oldnew = append(oldnew, token, "*****")
		}
	}
	oldnew = append(oldnew, c.ProjectDir, "$CWD")
	return strings.NewReplacer(oldnew...)
}

// loadEnv returns environ as a map with the variables in filename added.
// Note that OS env will override the env file. A missing file is not an error.
func loadEnv(filename string, environ []string) (map[string]string, error) {
	env := make(map[string]string)
	fileEnv, err := config.LoadEnvFile(filename)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(filename), err)
	}
	for k, v := range fileEnv {
		env[k] = v
	}
	for _, kv := range environ {
		k, v := envhelpers.SplitEnvVar(kv)
		if v == "" {
			continue
		}
		env[k] = v
	}
	return env, nil
}
