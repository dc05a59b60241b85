//go:build darwin

package power

/*
#cgo LDFLAGS: -framework IOKit -framework CoreFoundation
#include <stdlib.h>
#include <IOKit/pwr_mgt/IOPMLib.h>
#include <CoreFoundation/CoreFoundation.h>

static IOReturn KACreateAssertion(const char *kind, IOPMAssertionLevel level, const char *reason, IOPMAssertionID *id) {
    CFStringRef kindRef = CFStringCreateWithCString(kCFAllocatorDefault, kind, kCFStringEncodingUTF8);
    CFStringRef reasonRef = CFStringCreateWithCString(kCFAllocatorDefault, reason, kCFStringEncodingUTF8);
    IOReturn result = IOPMAssertionCreateWithName(kindRef, level, reasonRef, id);
    CFRelease(kindRef);
    CFRelease(reasonRef);
    return result;
}
*/
import "C"
import (
	"unsafe"

	"github.com/hashicorp/go-hclog"
)

// Debug with `pmset -g assertions`.
type iokitFacility struct {
	logger hclog.Logger
}

func newFacility(_ string, logger hclog.Logger) Facility {
	return &iokitFacility{logger: logger}
}

func (f *iokitFacility) Create(kind Kind, level Level, reason string) (Status, Handle) {
	cKind := C.CString(kind.Name())
	defer C.free(unsafe.Pointer(cKind))
	cReason := C.CString(reason)
	defer C.free(unsafe.Pointer(cReason))

	var id C.IOPMAssertionID
	result := C.KACreateAssertion(cKind, C.IOPMAssertionLevel(level), cReason, &id)
	if result != C.kIOReturnSuccess {
		return Status(result), 0
	}
	return StatusSuccess, Handle(id)
}

func (f *iokitFacility) Release(h Handle) {
	if result := C.IOPMAssertionRelease(C.IOPMAssertionID(h)); result != C.kIOReturnSuccess {
		f.logger.Warn("failed to release assertion", "handle", h, "ioreturn", int32(result))
	}
}
