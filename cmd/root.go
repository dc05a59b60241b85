package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "keepawake",
	Short: "keepawake keeps your machine from sleeping while you need it",
	Long: `keepawake holds power-management assertions with the operating system so
the display, idle sleep or system sleep stay inhibited for as long as it runs.

Assertions are released when keepawake exits, when a wrapped command finishes,
or when a watched process goes away.`,
	SilenceErrors: true,
}

// exitError carries a wrapped command's exit status out of RunE.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.code)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
