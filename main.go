package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/bep/logg"
	"github.com/gohugoio/modreleaser/cmd/corecmd"
	"github.com/gohugoio/modreleaser/cmd/preparecmd"
	"github.com/gohugoio/modreleaser/cmd/publishcmd"
	"github.com/gohugoio/modreleaser/cmd/verifycmd"
	"github.com/gohugoio/modreleaser/internal/common/logging"
	"github.com/gohugoio/modreleaser/internal/releases"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
)

func main() {
	if err := parseAndRun(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func parseAndRun(args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Println("stacktrace from panic: \n" + string(debug.Stack()))
			err = fmt.Errorf("%v", r)
		}
	}()

	start := time.Now()

	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		releases.UserAgent = corecmd.CommandName + "/" + bi.Main.Version
	}

	var (
		coreCommand, core = corecmd.New()
		verifyCommand     = verifycmd.New(core)
		prepareCommand    = preparecmd.New(core)
		publishCommand    = publishcmd.New(core)
	)

	coreCommand.Subcommands = []*ffcli.Command{
		verifyCommand,
		prepareCommand,
		publishCommand,
	}

	coreCommand.Options = []ff.Option{
		ff.WithEnvVarPrefix(corecmd.EnvPrefix),
	}

	if err := coreCommand.Parse(args); err != nil {
		return fmt.Errorf("error parsing command line: %w", err)
	}

	if err := core.Init(); err != nil {
		return fmt.Errorf("error initializing config: %w", err)
	}

	defer func() {
		if closeErr := core.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing app: %w", closeErr)
		}

		elapsed := time.Since(start)
		core.InfoLog.Log(logg.String(fmt.Sprintf("Total in %s …", logging.FormatDuration(elapsed))))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), core.Timeout)
	defer cancel()

	if err := coreCommand.Run(ctx); err != nil {
		return fmt.Errorf("error running command: %w", err)
	}

	return
}
