//go:build !darwin && !linux && !windows

package power

import (
	"sync"

	"github.com/hashicorp/go-hclog"
)

// noopFacility hands out handles without telling the OS anything.
type noopFacility struct {
	logger hclog.Logger
	warn   sync.Once

	mu   sync.Mutex
	next Handle
}

func newFacility(_ string, logger hclog.Logger) Facility {
	return &noopFacility{logger: logger}
}

func (n *noopFacility) Create(kind Kind, _ Level, _ string) (Status, Handle) {
	n.warn.Do(func() {
		n.logger.Warn("sleep prevention not implemented on this platform (no-op)")
	})
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	return StatusSuccess, n.next
}

func (n *noopFacility) Release(Handle) {}
