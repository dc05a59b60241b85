// Package power holds OS power-management assertions that keep the machine
// awake, and releases them when the owner is done.
package power

import "github.com/hashicorp/go-hclog"

// DefaultReason is reported to the OS when Options.Reason is empty.
const DefaultReason = "User requested"

// DefaultAppName is used when Options.AppName is empty.
const DefaultAppName = "keepawake"

// Options selects which sleep modes to inhibit.
type Options struct {
	Display bool   `yaml:"display"`
	Idle    bool   `yaml:"idle"`
	Sleep   bool   `yaml:"sleep"`
	Reason  string `yaml:"reason"`
	AppName string `yaml:"app_name"`
}

// ReasonOrDefault returns the configured reason, or DefaultReason.
func (o Options) ReasonOrDefault() string {
	if o.Reason == "" {
		return DefaultReason
	}
	return o.Reason
}

// AppNameOrDefault returns the configured app name, or DefaultAppName.
func (o Options) AppNameOrDefault() string {
	if o.AppName == "" {
		return DefaultAppName
	}
	return o.AppName
}

func (o Options) enabled(k Kind) bool {
	switch k {
	case KindDisplay:
		return o.Display
	case KindIdle:
		return o.Idle
	case KindSleep:
		return o.Sleep
	}
	return false
}

// Option customizes a Guard.
type Option func(*Guard)

// WithFacility replaces the platform facility.
func WithFacility(f Facility) Option {
	return func(g *Guard) { g.facility = f }
}

// WithLogger sets the logger used for debug tracing of assertions.
func WithLogger(l hclog.Logger) Option {
	return func(g *Guard) { g.logger = l }
}

// Guard keeps the machine awake for as long as it is open.
//
// A Guard is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
type Guard struct {
	opts     Options
	facility Facility
	logger   hclog.Logger
	leases   [numKinds]Lease
	closed   bool
}

// New creates an assertion for every kind enabled in opts.
//
// If the OS rejects one of them New returns a *StatusError together with the
// partially built Guard: assertions created before the failure stay held
// until Close is called. Callers should always defer Close on the result.
func New(opts Options, options ...Option) (*Guard, error) {
	g := &Guard{opts: opts}
	for k := range g.leases {
		g.leases[k].kind = Kind(k)
	}
	for _, o := range options {
		o(g)
	}
	if g.logger == nil {
		g.logger = hclog.NewNullLogger()
	}
	if g.facility == nil {
		g.facility = NewFacility(opts.AppNameOrDefault(), g.logger)
	}

	for k := range g.leases {
		l := &g.leases[k]
		if !opts.enabled(l.kind) {
			continue
		}
		if err := g.acquire(l); err != nil {
			return g, err
		}
	}
	return g, nil
}

// SetDisplay enables or disables the display assertion. Only the display
// kind can be toggled after construction.
func (g *Guard) SetDisplay(display bool) error {
	if g.closed {
		return ErrClosed
	}
	if g.opts.Display == display {
		return nil
	}

	l := &g.leases[KindDisplay]
	if display {
		if l.Active() {
			return mismatch(KindDisplay)
		}
		if err := g.acquire(l); err != nil {
			return err
		}
	} else {
		if !l.Active() {
			return mismatch(KindDisplay)
		}
		g.release(l)
	}
	g.opts.Display = display
	return nil
}

// Close releases every held assertion. It is safe to call on a nil Guard,
// after a failed New, and more than once. A closed Guard refuses SetDisplay.
func (g *Guard) Close() error {
	if g == nil {
		return nil
	}
	g.closed = true
	for k := range g.leases {
		g.release(&g.leases[k])
	}
	g.opts.Display = false
	return nil
}

// Options returns a copy of the current options.
func (g *Guard) Options() Options { return g.opts }

// Active reports whether an assertion of kind k is held.
func (g *Guard) Active(k Kind) bool {
	if k < 0 || int(k) >= numKinds {
		return false
	}
	return g.leases[k].Active()
}

func (g *Guard) acquire(l *Lease) error {
	if err := l.acquire(g.facility, g.opts.ReasonOrDefault()); err != nil {
		g.logger.Debug("assertion rejected", "kind", l.kind, "error", err)
		return err
	}
	g.logger.Debug("assertion created", "kind", l.kind, "handle", l.handle)
	return nil
}

func (g *Guard) release(l *Lease) {
	if !l.Active() {
		return
	}
	h := l.handle
	l.release(g.facility)
	g.logger.Debug("assertion released", "kind", l.kind, "handle", h)
}
