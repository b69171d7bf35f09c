package environment

import "github.com/shadercore/recompiler/core/fault"

// FakeGuestMemory is an in-memory GuestMemoryReader test double, grounded
// on the host library's in-memory Pool test doubles: a single flat byte
// slice standing in for guest address space starting at Base.
type FakeGuestMemory struct {
	Base uint64
	Data []byte
}

// ReadGuest implements GuestMemoryReader by slicing Data; an out-of-range
// request is a test bug, not a guest-input condition (spec §6: guest
// memory reads are total over valid addresses), so it reports
// fault.LogicError rather than a zero-filled read.
func (m *FakeGuestMemory) ReadGuest(addr uint64, length uint32) ([]byte, error) {
	if addr < m.Base {
		return nil, fault.Newf(fault.LogicError, "FakeGuestMemory: address 0x%x below base 0x%x", addr, m.Base)
	}
	off := addr - m.Base
	end := off + uint64(length)
	if end > uint64(len(m.Data)) {
		return nil, fault.Newf(fault.LogicError, "FakeGuestMemory: read [0x%x, 0x%x) exceeds backing store of length 0x%x", off, end, len(m.Data))
	}
	return m.Data[off:end], nil
}

// Profile returns a permissive Profile exercising every optional feature,
// suitable for tests that want the back-ends' best-case emission path.
func (m *FakeGuestMemory) Profile() Profile {
	return Profile{
		SPIRVVersion:                           0x00010300,
		SupportsInt8:                           true,
		SupportsInt16:                          true,
		SupportsInt64:                          true,
		SupportsFP16:                           true,
		SupportsFP64:                           true,
		SupportsDescriptorAliasing:             true,
		SupportsViewportIndexLayerNonGeometry:  true,
		SupportsDerivativeControl:              true,
		SupportsGeometryShaderPassthrough:      true,
		SupportsExplicitWorkgroupLayout:        true,
		VertexIsInstanceIndexed:                true,
		WarpSizeLargerThanGuest:                false,
	}
}

// RuntimeInfo returns a zero-value RuntimeInfo; callers that need specific
// varying layout should construct their own Environment implementation.
func (m *FakeGuestMemory) RuntimeInfo() RuntimeInfo {
	return RuntimeInfo{}
}
