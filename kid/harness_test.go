package kid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/state"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// counterDescriptor is a minimal keyed operator for exercising Harness
// dispatch: its 8-byte slot holds a little-endian uint64 incremented once
// per Update call, and Expire copies the count onto out as a single member.
func counterDescriptor() *Descriptor {
	return &Descriptor{
		Name:      "counter",
		StateSize: 8,
		Update: func(_ any, slot []byte, _ *tuple.Tuple, _ *wsdata.Record) bool {
			wire.PutU64(slot, 0, wire.ReadU64(slot, 0)+1)
			return true
		},
		Expire: func(_ any, slot []byte, out *tuple.Tuple) error {
			return out.AddMember(wsdata.NewUint64(wire.ReadU64(slot, 0)))
		},
	}
}

func newTestHarness(t *testing.T, desc *Descriptor) (*Harness, *label.Registry, label.Label) {
	t.Helper()
	reg := label.New()
	keyLabel := reg.RegisterIndexed("key")
	tbl := state.New(16, 8)
	h := NewHarness(desc, nil, tbl, reg, keyLabel, nil, false)
	return h, reg, keyLabel
}

func TestDispatchDefaultIncrementsAndForwards(t *testing.T) {
	h, reg, keyLabel := newTestHarness(t, counterDescriptor())

	rec := tuple.New(reg, tuple.Small)
	k := wsdata.NewString("alice")
	k.AttachLabel(keyLabel)
	require.NoError(t, rec.AddMember(k))

	forward, _, err := h.Dispatch(PortDefault, rec)
	require.NoError(t, err)
	require.True(t, forward)

	forward, _, err = h.Dispatch(PortDefault, rec)
	require.NoError(t, err)
	require.True(t, forward)

	slot, ok := h.table.Find(recordKey{k})
	require.True(t, ok)
	require.EqualValues(t, 2, wire.ReadU64(slot.Data, 0))
	slot.Unlock()
}

func TestDispatchDeleteRunsExpireThenRemoves(t *testing.T) {
	h, reg, keyLabel := newTestHarness(t, counterDescriptor())

	rec := tuple.New(reg, tuple.Small)
	k := wsdata.NewString("bob")
	k.AttachLabel(keyLabel)
	require.NoError(t, rec.AddMember(k))

	_, _, err := h.Dispatch(PortDefault, rec)
	require.NoError(t, err)
	_, _, err = h.Dispatch(PortDefault, rec)
	require.NoError(t, err)

	forward, emitted, err := h.Dispatch(PortDelete, rec)
	require.NoError(t, err)
	require.True(t, forward)
	require.Len(t, emitted, 1)
	require.Equal(t, 1, emitted[0].Len())

	_, ok := h.table.Find(recordKey{k})
	require.False(t, ok)
}

func TestDispatchFlushDrainsEveryKey(t *testing.T) {
	h, reg, keyLabel := newTestHarness(t, counterDescriptor())

	for _, name := range []string{"a", "b", "c"} {
		rec := tuple.New(reg, tuple.Small)
		k := wsdata.NewString(name)
		k.AttachLabel(keyLabel)
		require.NoError(t, rec.AddMember(k))
		_, _, err := h.Dispatch(PortDefault, rec)
		require.NoError(t, err)
	}
	require.Equal(t, 3, h.table.Len())

	forward, emitted, err := h.Dispatch(PortFlush, nil)
	require.NoError(t, err)
	require.False(t, forward)
	require.Len(t, emitted, 3)
	require.Equal(t, 0, h.table.Len())
}

func TestDispatchExpireWalksOneSlotAtATime(t *testing.T) {
	h, reg, keyLabel := newTestHarness(t, counterDescriptor())

	for _, name := range []string{"x", "y"} {
		rec := tuple.New(reg, tuple.Small)
		k := wsdata.NewString(name)
		k.AttachLabel(keyLabel)
		require.NoError(t, rec.AddMember(k))
		_, _, err := h.Dispatch(PortDefault, rec)
		require.NoError(t, err)
	}

	forward, emitted, err := h.Dispatch(PortExpire, nil)
	require.NoError(t, err)
	require.False(t, forward)
	require.Len(t, emitted, 1)
	// Table membership is untouched by EXPIRE: it's a read-only cooperative
	// step, not an eviction.
	require.Equal(t, 2, h.table.Len())
}
