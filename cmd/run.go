package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/scienceol/keepawake/internal/config"
	"github.com/scienceol/keepawake/internal/logging"
	"github.com/scienceol/keepawake/internal/pidwait"
	"github.com/scienceol/keepawake/internal/power"
	"github.com/scienceol/keepawake/internal/ui"
	"github.com/scienceol/keepawake/internal/updater"
	"github.com/scienceol/keepawake/internal/watch"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagDisplay  bool
	flagIdle     bool
	flagSleep    bool
	flagReason   string
	flagAppName  string
	flagLogLevel string
	flagWaitPid  int
	flagWatch    bool
)

func init() {
	f := runCmd.Flags()
	f.StringVar(&flagConfig, "config", "", "Config file (default: ~/.keepawake/config.yaml)")
	f.BoolVarP(&flagDisplay, "display", "d", false, "Keep the display on")
	f.BoolVarP(&flagIdle, "idle", "i", false, "Prevent idle-triggered system sleep")
	f.BoolVarP(&flagSleep, "sleep", "s", false, "Prevent system sleep")
	f.StringVarP(&flagReason, "reason", "r", "", "Reason reported to the OS (default: \""+power.DefaultReason+"\")")
	f.StringVar(&flagAppName, "app-name", "", "Application name reported to the OS (default: \""+power.DefaultAppName+"\")")
	f.StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	f.IntVarP(&flagWaitPid, "wait-pid", "w", 0, "Stay awake until the process with this pid exits")
	f.BoolVar(&flagWatch, "watch", false, "Re-apply the display setting when the config file changes")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [flags] [-- command [args...]]",
	Short: "Keep the machine awake until interrupted or until a command exits",
	Long: `Holds the selected power assertions until keepawake is interrupted.

If a command is given, it is run and the assertions are held until it exits;
keepawake then exits with the command's status. With --wait-pid the
assertions are held until that process exits.

On Unix systems, SIGUSR1 toggles the display assertion.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(runFlags(cmd))
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}
		invalid := cfg.Validate()
		if invalid != nil && !flagWatch {
			return fmt.Errorf("configuration error: %w", invalid)
		}
		logger := logging.New(cfg.LogLevel)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		ui.Banner(version)
		if info := updater.CheckForUpdate(ctx, cfg.UpdateURL, version, logger); info != nil {
			ui.UpdateNotice(version, info.Latest, info.DownloadURL)
		}

		guard, err := power.New(cfg.Options, power.WithLogger(logger))
		d := &display{guard: guard, logger: logger}
		defer d.close()
		if err != nil {
			return fmt.Errorf("keep awake: %w", err)
		}

		fmt.Fprintln(os.Stderr)
		ui.Toggle("display", cfg.Display)
		ui.Toggle("idle", cfg.Idle)
		ui.Toggle("sleep", cfg.Sleep)
		ui.KeyValue("Reason", cfg.ReasonOrDefault())
		ui.Separator()

		stopToggle := d.handleSignals()
		defer stopToggle()

		if flagWatch {
			stopWatch, err := watch.Watch(ctx, cfg, logger, func(next *config.Config) {
				d.set(next.Display)
			})
			if err != nil {
				return fmt.Errorf("watch config: %w", err)
			}
			defer stopWatch()
			ui.Info("Watching %s", cfg.Path)
			if invalid != nil {
				ui.Warn("Nothing enabled yet; waiting for the config file to turn on display")
			}
		}

		switch {
		case len(args) > 0:
			ui.Info("Running %s", strings.Join(args, " "))
			return runCommand(ctx, args)
		case flagWaitPid != 0:
			ui.Info("Waiting for pid %d to exit...", flagWaitPid)
			if err := pidwait.Wait(ctx, flagWaitPid); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
		default:
			ui.Info("Staying awake. Press Ctrl-C to stop.")
			<-ctx.Done()
		}

		fmt.Fprintln(os.Stderr)
		ui.Success("Released assertions")
		return nil
	},
}

// runFlags reports only the flags the user actually set, so unset flags do
// not override the environment or config file.
func runFlags(cmd *cobra.Command) config.Flags {
	f := config.Flags{ConfigPath: flagConfig}
	changed := cmd.Flags().Changed
	if changed("display") {
		f.Display = &flagDisplay
	}
	if changed("idle") {
		f.Idle = &flagIdle
	}
	if changed("sleep") {
		f.Sleep = &flagSleep
	}
	if changed("reason") {
		f.Reason = &flagReason
	}
	if changed("app-name") {
		f.AppName = &flagAppName
	}
	if changed("log-level") {
		f.LogLevel = &flagLogLevel
	}
	return f
}

// display serializes display toggles coming from signals and the config
// watcher, since a power.Guard is not safe for concurrent use.
type display struct {
	mu     sync.Mutex
	guard  *power.Guard
	closed bool
	logger hclog.Logger
}

func (d *display) set(on bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || d.guard.Options().Display == on {
		return
	}
	if err := d.guard.SetDisplay(on); err != nil {
		d.logger.Error("failed to toggle display assertion", "error", err)
		ui.Error("Display assertion: %v", err)
		return
	}
	ui.Toggle("display", on)
}

func (d *display) toggle() {
	d.mu.Lock()
	on := !d.guard.Options().Display
	d.mu.Unlock()
	d.set(on)
}

// close releases the guard. Toggles arriving afterwards are dropped.
func (d *display) close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	_ = d.guard.Close()
}

// handleSignals toggles the display on every toggle signal until the
// returned function is called.
func (d *display) handleSignals() func() {
	if len(toggleSignals) == 0 {
		return func() {}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, toggleSignals...)
	stop := d.toggleOn(ch)
	return func() {
		signal.Stop(ch)
		stop()
	}
}

// toggleOn toggles the display for every value received on ch. The returned
// function stops the loop and waits for an in-flight toggle to finish.
func (d *display) toggleOn(ch <-chan os.Signal) func() {
	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case <-ch:
				d.toggle()
			case <-done:
				return
			}
		}
	}()
	return func() {
		close(done)
		<-exited
	}
}

// runCommand runs args with inherited stdio and returns an *exitError if it
// exits non-zero.
func runCommand(ctx context.Context, args []string) error {
	c := exec.Command(args[0], args[1:]...)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Start(); err != nil {
		return fmt.Errorf("start %s: %w", args[0], err)
	}

	done := make(chan error, 1)
	go func() { done <- c.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		_ = c.Process.Signal(os.Interrupt)
		err = <-done
	}

	var ee *exec.ExitError
	if errors.As(err, &ee) {
		code := ee.ExitCode()
		if code < 0 {
			code = 1
		}
		return &exitError{code: code}
	}
	return err
}
