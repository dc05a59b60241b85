//go:build windows

package power

import (
	"runtime"
	"sync"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows"
)

const (
	esSystemRequired  = 0x00000001
	esDisplayRequired = 0x00000002
	esContinuous      = 0x80000000
)

// StatusExecutionState is reported when SetThreadExecutionState fails.
const StatusExecutionState Status = -1

var procSetThreadExecutionState = windows.NewLazySystemDLL("kernel32.dll").NewProc("SetThreadExecutionState")

// executionFacility backs every lease with one execution state. The state
// belongs to the thread that set it, so all calls run on a single goroutine
// locked to its OS thread, and the flags are recomputed from the live
// leases on every change.
type executionFacility struct {
	logger hclog.Logger
	start  sync.Once
	reqs   chan executionReq

	mu   sync.Mutex
	next Handle
	live map[Handle]Kind
}

type executionReq struct {
	flags uintptr
	reply chan bool
}

func newFacility(_ string, logger hclog.Logger) Facility {
	return &executionFacility{
		logger: logger,
		reqs:   make(chan executionReq),
		live:   make(map[Handle]Kind),
	}
}

func executionFlags(kind Kind) uintptr {
	if kind == KindDisplay {
		return esDisplayRequired | esSystemRequired
	}
	return esSystemRequired
}

// combinedLocked ORs the flags of every live lease. f.mu must be held.
func (f *executionFacility) combinedLocked() uintptr {
	var flags uintptr
	for _, k := range f.live {
		flags |= executionFlags(k)
	}
	return flags
}

// loop owns the thread whose execution state keeps the machine awake. It
// never unlocks the thread, which keeps the state alive for the process.
func (f *executionFacility) loop() {
	runtime.LockOSThread()
	for r := range f.reqs {
		ret, _, _ := procSetThreadExecutionState.Call(esContinuous | r.flags)
		r.reply <- ret != 0
	}
}

func (f *executionFacility) apply(flags uintptr) bool {
	f.start.Do(func() { go f.loop() })
	reply := make(chan bool, 1)
	f.reqs <- executionReq{flags: flags, reply: reply}
	return <-reply
}

func (f *executionFacility) Create(kind Kind, _ Level, _ string) (Status, Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.next++
	h := f.next
	f.live[h] = kind
	if !f.apply(f.combinedLocked()) {
		delete(f.live, h)
		f.logger.Warn("SetThreadExecutionState failed", "kind", kind)
		return StatusExecutionState, 0
	}
	return StatusSuccess, h
}

func (f *executionFacility) Release(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.live[h]; !ok {
		f.logger.Warn("release of unknown handle", "handle", h)
		return
	}
	delete(f.live, h)
	if !f.apply(f.combinedLocked()) {
		f.logger.Warn("SetThreadExecutionState failed on release", "handle", h)
	}
}
