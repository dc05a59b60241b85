//go:build !unix

package cmd

import "os"

var toggleSignals []os.Signal
