package environment

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shadercore/recompiler/core/fault"
)

func TestFakeGuestMemoryReadsWithinRange(t *testing.T) {
	mem := &FakeGuestMemory{Base: 0x1000, Data: []byte{1, 2, 3, 4, 5, 6}}

	got, err := mem.ReadGuest(0x1002, 3)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4, 5}, got)
}

func TestFakeGuestMemoryRejectsOutOfRange(t *testing.T) {
	mem := &FakeGuestMemory{Base: 0x1000, Data: []byte{1, 2, 3, 4}}

	_, err := mem.ReadGuest(0x1002, 10)
	require.Error(t, err)
	kind, ok := fault.KindOf(err)
	require.True(t, ok)
	require.Equal(t, fault.LogicError, kind)
}

func TestStubsReportNotImplemented(t *testing.T) {
	for _, err := range []error{
		FatalP(0, "boom"),
		FspLdr(0),
		NVMemP(0, 0),
	} {
		kind, ok := fault.KindOf(err)
		require.True(t, ok)
		require.Equal(t, fault.NotImplemented, kind)
	}
}

// TestStubsWrapNamedSentinel confirms callers can distinguish which guest
// service they hit via errors.Is against the named sentinel, not just the
// shared NotImplemented Kind all three stubs share.
func TestStubsWrapNamedSentinel(t *testing.T) {
	require.True(t, errors.Is(FatalP(0, "boom"), ErrFatalP))
	require.True(t, errors.Is(FspLdr(0), ErrFspLdr))
	require.True(t, errors.Is(NVMemP(0, 0), ErrNVMemP))
	require.False(t, errors.Is(FatalP(0, "boom"), ErrFspLdr))
}
