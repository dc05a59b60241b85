package power

import "github.com/hashicorp/go-hclog"

// Kind identifies one of the three sleep modes a lease can inhibit.
type Kind int

const (
	KindDisplay Kind = iota
	KindIdle
	KindSleep

	numKinds = 3
)

// Assertion type names, as IOKit spells them. Other facilities map them
// onto their own vocabulary.
const (
	assertionDisplay = "PreventUserIdleDisplaySleep"
	assertionIdle    = "PreventUserIdleSystemSleep"
	assertionSleep   = "PreventSystemSleep"
)

// Name returns the assertion type name for the kind.
func (k Kind) Name() string {
	switch k {
	case KindDisplay:
		return assertionDisplay
	case KindIdle:
		return assertionIdle
	case KindSleep:
		return assertionSleep
	}
	return "Unknown"
}

func (k Kind) String() string {
	switch k {
	case KindDisplay:
		return "display"
	case KindIdle:
		return "idle"
	case KindSleep:
		return "sleep"
	}
	return "unknown"
}

// Level is the assertion level passed to the facility.
type Level uint32

// LevelOn matches kIOPMAssertionLevelOn.
const LevelOn Level = 255

// Handle is the opaque identifier the OS assigns to an active assertion.
// Zero means no assertion.
type Handle uint32

// Status is the raw return code of a create call.
type Status int32

// StatusSuccess matches kIOReturnSuccess.
const StatusSuccess Status = 0

// Facility is the OS power-management boundary.
type Facility interface {
	// Create requests an assertion of the given kind. The handle is only
	// meaningful when the status is StatusSuccess.
	Create(kind Kind, level Level, reason string) (Status, Handle)

	// Release drops a handle previously returned by Create. It is never
	// called with a zero handle.
	Release(h Handle)
}

// NewFacility returns the facility for the running platform.
// See facility_darwin.go, facility_linux.go, facility_other.go.
func NewFacility(appName string, logger hclog.Logger) Facility {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return newFacility(appName, logger.Named("facility"))
}
