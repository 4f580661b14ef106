package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/kid"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/state"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

func TestKeyAddAccumulatesCountAndSum(t *testing.T) {
	reg := label.New()
	keyLabel := reg.RegisterIndexed("KEY")
	valLabel := reg.RegisterIndexed("VAL")
	ka := NewKeyAdd(reg)
	desc := KeyAddDescriptor(1)
	tbl := state.New(16, desc.StateSize)
	h := kid.NewHarness(desc, ka, tbl, reg, keyLabel, []label.Label{valLabel}, true)

	var k *wsdata.Record
	for _, v := range []uint64{10, 20, 30} {
		rec := tuple.New(reg, tuple.Small)
		k = wsdata.NewString("a")
		k.AttachLabel(keyLabel)
		require.NoError(t, rec.AddMember(k))
		val := wsdata.NewUint64(v)
		val.AttachLabel(valLabel)
		require.NoError(t, rec.AddMember(val))

		_, _, err := h.Dispatch(kid.PortDefault, rec)
		require.NoError(t, err)
	}

	slot, ok := tbl.Find(recordKeyForTest{k})
	require.True(t, ok)
	require.EqualValues(t, 3, wire.ReadU64(slot.Data, 0))
	require.EqualValues(t, 60, wire.ReadU64(slot.Data, 8))
	slot.Unlock()
}

func TestKeyAddFlushEmitsCountAndSum(t *testing.T) {
	reg := label.New()
	keyLabel := reg.RegisterIndexed("KEY")
	valLabel := reg.RegisterIndexed("VAL")
	ka := NewKeyAdd(reg)
	countLabel, ok := reg.Search("COUNT")
	require.True(t, ok)
	sumLabel, ok := reg.Search("SUM")
	require.True(t, ok)
	desc := KeyAddDescriptor(1)
	tbl := state.New(16, desc.StateSize)
	h := kid.NewHarness(desc, ka, tbl, reg, keyLabel, []label.Label{valLabel}, true)

	for _, v := range []uint64{10, 20, 30} {
		rec := tuple.New(reg, tuple.Small)
		k := wsdata.NewString("a")
		k.AttachLabel(keyLabel)
		require.NoError(t, rec.AddMember(k))
		val := wsdata.NewUint64(v)
		val.AttachLabel(valLabel)
		require.NoError(t, rec.AddMember(val))

		_, _, err := h.Dispatch(kid.PortDefault, rec)
		require.NoError(t, err)
	}

	_, emitted, err := h.Dispatch(kid.PortFlush, nil)
	require.NoError(t, err)
	require.Len(t, emitted, 1)

	out := emitted[0]
	countRecs := out.Find(countLabel)
	require.Len(t, countRecs, 1)
	count, ok := countRecs[0].GetUint()
	require.True(t, ok)
	require.EqualValues(t, 3, count)

	sumRecs := out.Find(sumLabel)
	require.Len(t, sumRecs, 1)
	sum, ok := sumRecs[0].GetUint()
	require.True(t, ok)
	require.EqualValues(t, 60, sum)
}

// recordKeyForTest mirrors kid's unexported recordKey adapter so tests in
// this package can look a key record's slot up directly.
type recordKeyForTest struct{ r *wsdata.Record }

func (k recordKeyForTest) StateKey() uint64 {
	data, ok := k.r.HashRange()
	if !ok {
		return 0
	}
	return wire.Hash64(0, data)
}
