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

package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bep/logg"
	"github.com/fatih/color"
)

const (
	// FieldCmd names the command or platform that logged the entry.
	FieldCmd = "cmd"

	// FieldPlatform names the platform a publish job runs for.
	FieldPlatform = "platform"
)

var bold = color.New(color.Bold)

var Colors = [...]*color.Color{
	logg.LevelDebug: color.New(color.FgWhite),
	logg.LevelInfo:  color.New(color.FgBlue),
	logg.LevelWarn:  color.New(color.FgYellow),
	logg.LevelError: color.New(color.FgRed),
}

var Strings = [...]string{
	logg.LevelDebug: "•",
	logg.LevelInfo:  "•",
	logg.LevelWarn:  "•",
	logg.LevelError: "⨯",
}

// Handler writes info and debug entries to one writer and warnings and errors to another.
//
// The entry is prefixed with the upper cased cmd field, e.g. "PUBLISH: ".
// Loggers derived from each other may carry several cmd fields; the last one wins.
// A platform field is moved into the prefix, e.g. "PUBLISH: modrinth: ".
type Handler struct {
	mu        sync.Mutex
	outWriter io.Writer
	errWriter io.Writer
	colours   bool

	Padding int
}

// NewDefaultHandler creates a new Handler that writes coloured output, meant for terminals.
func NewDefaultHandler(outWriter, errWriter io.Writer) *Handler {
	return &Handler{
		outWriter: outWriter,
		errWriter: errWriter,
		colours:   true,
		Padding:   3,
	}
}

// NewNoColoursHandler creates a new Handler that writes plain text, e.g. for CI logs.
func NewNoColoursHandler(outWriter, errWriter io.Writer) *Handler {
	return &Handler{
		outWriter: outWriter,
		errWriter: errWriter,
	}
}

func (h *Handler) HandleLog(e *logg.Entry) error {
	var cmd, platform string
	fields := make(logg.Fields, 0, len(e.Fields))
	for _, field := range e.Fields {
		switch field.Name {
		case FieldCmd:
			cmd = fmt.Sprint(field.Value)
		case FieldPlatform:
			platform = fmt.Sprint(field.Value)
		default:
			fields = append(fields, field)
		}
	}

	var prefix string
	if cmd != "" {
		prefix = strings.ToUpper(cmd) + ":\t"
	}
	if platform != "" && platform != cmd {
		prefix += platform + ": "
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	w := h.outWriter
	if e.Level > logg.LevelInfo {
		w = h.errWriter
	}

	if !h.colours {
		fmt.Fprintf(w, "%s%s", prefix, e.Message)
		for _, field := range fields {
			fmt.Fprintf(w, " %s %v", field.Name, field.Value)
		}
		fmt.Fprintln(w)
		return nil
	}

	c := Colors[e.Level]
	c.Fprintf(w, "%s %s%s", bold.Sprintf("%*s", h.Padding+1, Strings[e.Level]), c.Sprint(prefix), e.Message)
	for _, field := range fields {
		fmt.Fprintf(w, " %s %v", c.Sprint(field.Name), field.Value)
	}
	fmt.Fprintln(w)

	return nil
}
