//go:build unix

package pidwait

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// alive probes pid with signal 0. EPERM means the process exists but
// belongs to someone else.
func alive(pid int) (bool, error) {
	if pid <= 0 {
		return false, fmt.Errorf("pidwait: invalid pid %d", pid)
	}
	err := unix.Kill(pid, 0)
	switch {
	case err == nil, errors.Is(err, unix.EPERM):
		return true, nil
	case errors.Is(err, unix.ESRCH):
		return false, nil
	default:
		return false, fmt.Errorf("pidwait: probe %d: %w", pid, err)
	}
}
