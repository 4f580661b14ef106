package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

func keysortSender(t *testing.T, reg *label.Registry) func(score float64) *tuple.Tuple {
	t.Helper()
	return func(score float64) *tuple.Tuple {
		rec := tuple.New(reg, tuple.Small)
		k := wsdata.NewString("a")
		k.AttachLabel(reg.Register("KEY"))
		require.NoError(t, rec.AddMember(k))
		v := wsdata.NewDouble(score)
		v.AttachLabel(reg.Register("SCORE"))
		require.NoError(t, rec.AddMember(v))
		return rec
	}
}

func keysortScores(t *testing.T, reg *label.Registry, out *tuple.Tuple) []float64 {
	t.Helper()
	scoreLabel := reg.Register("SCORE")
	var got []float64
	for _, m := range out.Members() {
		if m.HasLabel(scoreLabel) {
			v, _ := m.GetDouble()
			got = append(got, v)
		}
	}
	return got
}

func TestKeySortFillsWindowWithNoEmission(t *testing.T) {
	reg := label.New()
	keyNest := buildNest(reg, "KEY")
	valueNest := buildNest(reg, "SCORE")
	ks := NewKeySort(reg, keyNest, valueNest, 3)
	send := keysortSender(t, reg)

	for _, s := range []float64{3, 1, 2} {
		out, err := ks.Update(send(s))
		require.NoError(t, err)
		require.Nil(t, out)
	}

	flushed := ks.Flush()
	require.Len(t, flushed, 1)
	require.Equal(t, 3, flushed[0].Len())
	require.Equal(t, []float64{1, 2, 3}, keysortScores(t, reg, flushed[0]))
}

func TestKeySortStreamsStaleAndDisplacedThenDrains(t *testing.T) {
	reg := label.New()
	keyNest := buildNest(reg, "KEY")
	valueNest := buildNest(reg, "SCORE")
	ks := NewKeySort(reg, keyNest, valueNest, 3)
	send := keysortSender(t, reg)

	for _, s := range []float64{5, 3, 8} {
		out, err := ks.Update(send(s))
		require.NoError(t, err)
		require.Nil(t, out)
	}

	// 2 is below the window's lowest buffered value (3): stale, emitted
	// immediately and unsorted, window stays [3, 5, 8].
	stale, err := ks.Update(send(2))
	require.NoError(t, err)
	require.NotNil(t, stale)
	require.Equal(t, []float64{2}, keysortScores(t, reg, stale))

	// 10 is at or beyond the window's highest buffered value (8): appended,
	// displacing (emitting) the current oldest entry, 3.
	displaced, err := ks.Update(send(10))
	require.NoError(t, err)
	require.NotNil(t, displaced)
	require.Equal(t, []float64{3}, keysortScores(t, reg, displaced))

	flushed := ks.Flush()
	require.Len(t, flushed, 1)
	require.Equal(t, []float64{5, 8, 10}, keysortScores(t, reg, flushed[0]))
}

func TestKeySortInsertsBetweenOldestAndNewest(t *testing.T) {
	reg := label.New()
	keyNest := buildNest(reg, "KEY")
	valueNest := buildNest(reg, "SCORE")
	ks := NewKeySort(reg, keyNest, valueNest, 3)
	send := keysortSender(t, reg)

	for _, s := range []float64{5, 3, 8} {
		out, err := ks.Update(send(s))
		require.NoError(t, err)
		require.Nil(t, out)
	}

	// 6 sits strictly between the window's oldest (3) and newest (8): it is
	// inserted into sorted position, displacing (emitting) the oldest entry.
	displaced, err := ks.Update(send(6))
	require.NoError(t, err)
	require.NotNil(t, displaced)
	require.Equal(t, []float64{3}, keysortScores(t, reg, displaced))

	flushed := ks.Flush()
	require.Len(t, flushed, 1)
	require.Equal(t, []float64{5, 6, 8}, keysortScores(t, reg, flushed[0]))
}
