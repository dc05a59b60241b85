//go:build unix

package cmd

import (
	"os"

	"golang.org/x/sys/unix"
)

var toggleSignals = []os.Signal{unix.SIGUSR1}
