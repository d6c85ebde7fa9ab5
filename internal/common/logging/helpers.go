package logging

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/bep/logg"
	"github.com/mattn/go-isatty"
)

// FormatDuration formats d the way it is printed in "Total in ...".
func FormatDuration(d time.Duration) string {
	if d.Milliseconds() < 2000 {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// IsTerminal reports whether coloured output should be written to f.
// NO_COLOR turns colours off, CI turns them on.
func IsTerminal(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if runtime.GOOS == "windows" {
		return false
	}
	if os.Getenv("CI") != "" {
		return true
	}

	fd := f.Fd()
	return os.Getenv("TERM") != "dumb" && (isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd))
}

// Replacer creates a new log handler that runs repl on the message and all string fields.
// It is used to hide the platform tokens.
func Replacer(repl *strings.Replacer) logg.Handler {
	return logg.HandlerFunc(func(e *logg.Entry) error {
		e.Message = repl.Replace(e.Message)
		for i, field := range e.Fields {
			switch v := field.Value.(type) {
			case string:
				e.Fields[i].Value = repl.Replace(v)
			case error:
				e.Fields[i].Value = repl.Replace(v.Error())
			}
		}
		return nil
	})
}
