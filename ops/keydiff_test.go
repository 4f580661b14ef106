package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowkit/flowkit/kid"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/state"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

func TestKeyDiffFirstTouchNoEmitThenAbsoluteDiff(t *testing.T) {
	reg := label.New()
	keyLabel := reg.RegisterIndexed("KEY")
	valLabel := reg.RegisterIndexed("bytes")
	kd := NewKeyDiff(reg)
	desc := KeyDiffDescriptor(1)
	tbl := state.New(16, desc.StateSize)
	h := kid.NewHarness(desc, kd, tbl, reg, keyLabel, []label.Label{valLabel}, true)
	require.NoError(t, desc.InitMValue(kd, []label.Label{valLabel}))

	send := func(v uint64) *tuple.Tuple {
		rec := tuple.New(reg, tuple.Small)
		k := wsdata.NewString("a")
		k.AttachLabel(keyLabel)
		require.NoError(t, rec.AddMember(k))
		val := wsdata.NewUint64(v)
		val.AttachLabel(valLabel)
		require.NoError(t, rec.AddMember(val))
		_, _, err := h.Dispatch(kid.PortDefault, rec)
		require.NoError(t, err)
		return rec
	}

	r1 := send(100)
	require.Len(t, r1.Find(reg.Register("bytes_DIFF")), 0)

	r2 := send(70)
	diffs := r2.Find(reg.Register("bytes_DIFF"))
	require.Len(t, diffs, 1)
	v, _ := diffs[0].GetUint()
	require.EqualValues(t, 30, v)
}
