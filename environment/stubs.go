package environment

import "github.com/shadercore/recompiler/core/fault"

// FatalP, FspLdr and NVMemP stand in for three guest-side services the
// original implementation left fully stubbed (spec §9 Open Questions):
// every entry point unimplemented, with no documented wire behavior to
// follow. Rather than guess at a response shape, each call here reports
// fault.NotImplemented; none of these three is reachable from the
// compiler's own Compile path (spec §1 Non-goals: "non-shader-engine
// emulation"), so callers that never wire one of these services up never
// pay for the stub.

// Sentinel causes for the three stubs below, so a caller that needs to
// distinguish which guest service it hit can compare with errors.Is
// instead of parsing a message string.
const (
	ErrFatalP = fault.Const("environment: Fatal_P is an intentionally unimplemented stub")
	ErrFspLdr = fault.Const("environment: FSP_LDR is an intentionally unimplemented stub")
	ErrNVMemP = fault.Const("environment: NVMEMP is an intentionally unimplemented stub")
)

// FatalP mirrors the guest "fatal:" service. Unimplemented: the source
// never documented what, if anything, a caller expects back.
func FatalP(errorCode uint32, message string) error {
	return fault.Wrap(fault.NotImplemented, ErrFatalP)
}

// FspLdr mirrors the guest "fsp-ldr" (filesystem-proxy loader) service.
// Unimplemented for the same reason as FatalP.
func FspLdr(titleID uint64) error {
	return fault.Wrap(fault.NotImplemented, ErrFspLdr)
}

// NVMemP mirrors the guest "nvmemp" (nvidia memory-pool management)
// service. Unimplemented for the same reason as FatalP.
func NVMemP(handle uint32, size uint64) error {
	return fault.Wrap(fault.NotImplemented, ErrNVMemP)
}
