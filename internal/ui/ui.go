package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI color/style codes
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	cyan   = "\033[36m"
	green  = "\033[32m"
	yellow = "\033[33m"
	red    = "\033[31m"
	white  = "\033[97m"
)

// out is where status lines go. Tests swap it for a buffer.
var out io.Writer = os.Stderr

// isTTY returns true if out is a terminal.
func isTTY() bool {
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// s wraps text with ANSI codes only when out is a TTY.
func s(codes, text string) string {
	if !isTTY() {
		return text
	}
	return codes + text + reset
}

// Banner prints the startup banner.
//
//	keepawake v0.1.0
func Banner(version string) {
	fmt.Fprintf(out, "\n  %s %s\n", s(bold+cyan, "keepawake"), s(dim, "v"+version))
}

// UpdateNotice prints a boxed update notice.
//
//	┌ Update available: 0.1.0 → 0.2.0
//	└ https://...
func UpdateNotice(current, latest, downloadURL string) {
	fmt.Fprintf(out, "\n  %s %s %s %s %s\n",
		s(yellow, "┌"),
		s(dim, "Update available:"),
		s(dim, current),
		s(yellow, "→"),
		s(bold+green, latest),
	)
	fmt.Fprintf(out, "  %s %s\n", s(yellow, "└"), s(dim, downloadURL))
}

// KeyValue prints a labeled line:  ▸ label  value
func KeyValue(label, value string) {
	fmt.Fprintf(out, "  %s %-11s %s\n", s(cyan, "▸"), s(dim, label), s(white, value))
}

// Toggle prints an on/off line for a sleep mode:  ▸ display  on
func Toggle(label string, on bool) {
	state := s(dim, "off")
	if on {
		state = s(bold+green, "on")
	}
	fmt.Fprintf(out, "  %s %-11s %s\n", s(cyan, "▸"), s(dim, label), state)
}

// Info prints an info line:  ● message
func Info(format string, a ...any) {
	fmt.Fprintf(out, "  %s %s\n", s(cyan, "●"), fmt.Sprintf(format, a...))
}

// Success prints a success line:  ✔ message
func Success(format string, a ...any) {
	fmt.Fprintf(out, "  %s %s\n", s(green, "✔"), fmt.Sprintf(format, a...))
}

// Warn prints a warning line:  ▲ message
func Warn(format string, a ...any) {
	fmt.Fprintf(out, "  %s %s\n", s(yellow, "▲"), fmt.Sprintf(format, a...))
}

// Error prints an error line:  ✖ message
func Error(format string, a ...any) {
	fmt.Fprintf(out, "  %s %s\n", s(red, "✖"), fmt.Sprintf(format, a...))
}

// Separator prints a dim horizontal line.
func Separator() {
	fmt.Fprintf(out, "  %s\n", s(dim, strings.Repeat("─", 48)))
}
