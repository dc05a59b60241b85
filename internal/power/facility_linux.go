//go:build linux

package power

import (
	"bytes"
	"os/exec"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/unix"
)

// Failure codes reported by the systemd-inhibit facility.
const (
	StatusUnsupported Status = -1
	StatusSpawnFailed Status = -2
	StatusExited      Status = -3
)

const releaseGrace = 2 * time.Second

// settle is how long Create waits for systemd-inhibit to fail on its own,
// e.g. when logind is unavailable or polkit denies the lock.
const settle = 250 * time.Millisecond

// inhibitProc is one systemd-inhibit child holding a single lock.
type inhibitProc struct {
	cmd  *exec.Cmd
	done chan struct{}
}

// inhibitFacility holds each assertion as a systemd-inhibit child that
// sleeps forever. Releasing the assertion terminates the child.
type inhibitFacility struct {
	appName string
	logger  hclog.Logger
	lookup  func(string) (string, error)

	mu    sync.Mutex
	next  Handle
	procs map[Handle]*inhibitProc
}

func newFacility(appName string, logger hclog.Logger) Facility {
	return &inhibitFacility{
		appName: appName,
		logger:  logger,
		lookup:  exec.LookPath,
		procs:   make(map[Handle]*inhibitProc),
	}
}

// what maps an assertion kind onto a systemd inhibitor lock type.
func what(kind Kind) string {
	switch kind {
	case KindDisplay, KindIdle:
		return "idle"
	default:
		return "sleep"
	}
}

func (f *inhibitFacility) Create(kind Kind, level Level, reason string) (Status, Handle) {
	path, err := f.lookup("systemd-inhibit")
	if err != nil {
		f.logger.Warn("systemd-inhibit not found", "error", err)
		return StatusUnsupported, 0
	}

	mode := "block"
	if level != LevelOn {
		mode = "delay"
	}
	cmd := exec.Command(path,
		"--what="+what(kind),
		"--who="+f.appName,
		"--why="+reason,
		"--mode="+mode,
		"sleep", "infinity",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// The sleep grandchild inherits stderr; don't let it hold Wait open.
	cmd.WaitDelay = releaseGrace
	// Kernel sends SIGTERM to child when parent dies, so no orphans.
	cmd.SysProcAttr = &syscall.SysProcAttr{Pdeathsig: unix.SIGTERM}

	if err := cmd.Start(); err != nil {
		f.logger.Warn("failed to start systemd-inhibit", "kind", kind, "error", err)
		return StatusSpawnFailed, 0
	}

	p := &inhibitProc{cmd: cmd, done: make(chan struct{})}
	// Reap the child so it doesn't become a zombie.
	go func() {
		_ = cmd.Wait()
		close(p.done)
	}()

	select {
	case <-p.done:
		f.logger.Warn("systemd-inhibit exited immediately", "kind", kind,
			"state", cmd.ProcessState.String(), "stderr", strings.TrimSpace(stderr.String()))
		return StatusExited, 0
	case <-time.After(settle):
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	h := f.next
	f.procs[h] = p
	f.logger.Debug("inhibitor started", "kind", kind, "handle", h, "pid", cmd.Process.Pid)
	return StatusSuccess, h
}

func (f *inhibitFacility) Release(h Handle) {
	f.mu.Lock()
	p, ok := f.procs[h]
	delete(f.procs, h)
	f.mu.Unlock()

	if !ok {
		f.logger.Warn("release of unknown handle", "handle", h)
		return
	}
	if err := p.cmd.Process.Signal(unix.SIGTERM); err != nil {
		f.logger.Debug("inhibitor already gone", "handle", h, "error", err)
	}
	select {
	case <-p.done:
	case <-time.After(releaseGrace):
		_ = p.cmd.Process.Kill()
		<-p.done
	}
}
