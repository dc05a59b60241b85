package power

// Lease owns at most one OS assertion of a single kind.
type Lease struct {
	kind   Kind
	handle Handle
}

// Kind returns the sleep mode the lease inhibits.
func (l *Lease) Kind() Kind { return l.kind }

// Active reports whether the lease currently holds an assertion.
func (l *Lease) Active() bool { return l.handle != 0 }

// acquire creates the assertion. The lease must be inactive.
func (l *Lease) acquire(f Facility, reason string) error {
	status, h := f.Create(l.kind, LevelOn, reason)
	if status != StatusSuccess {
		return &StatusError{Kind: l.kind, Status: status}
	}
	l.handle = h
	return nil
}

// release drops the assertion if one is held. The handle is cleared before
// returning so a second call is a no-op.
func (l *Lease) release(f Facility) {
	if l.handle == 0 {
		return
	}
	h := l.handle
	l.handle = 0
	f.Release(h)
}
