// Package logging builds the hclog logger shared by the CLI and the power
// facilities.
package logging

import (
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// New returns a logger named "keepawake" writing to stderr. Unknown levels
// fall back to warn.
func New(level string) hclog.Logger {
	return newWithOutput(level, os.Stderr)
}

func newWithOutput(level string, w io.Writer) hclog.Logger {
	lvl := hclog.LevelFromString(level)
	if lvl == hclog.NoLevel {
		lvl = hclog.Warn
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "keepawake",
		Level:  lvl,
		Output: w,
		Color:  hclog.AutoColor,
	})
}
