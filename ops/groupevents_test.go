package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

func buildNest(reg *label.Registry, path string) *label.NestedLabelSet {
	nest := &label.NestedLabelSet{}
	reg.AddPath(nest, path)
	return nest
}

func TestGroupEventsClosesOnBufferFull(t *testing.T) {
	reg := label.New()
	keyNest := buildNest(reg, "KEY")
	valueNest := buildNest(reg, "VAL")
	g := NewGroupEvents(reg, keyNest, 2)
	g.SetValueSearch(valueNest)

	send := func(val string) *tuple.Tuple {
		rec := tuple.New(reg, tuple.Small)
		k := wsdata.NewString("a")
		k.AttachLabel(reg.Register("KEY"))
		require.NoError(t, rec.AddMember(k))
		v := wsdata.NewString(val)
		v.AttachLabel(reg.Register("VAL"))
		require.NoError(t, rec.AddMember(v))
		return rec
	}

	out1, err := g.Update(send("one"))
	require.NoError(t, err)
	require.Nil(t, out1)

	out2, err := g.Update(send("two"))
	require.NoError(t, err)
	require.NotNil(t, out2)
	require.Equal(t, 3, out2.Len())
}

func TestGroupEventsFlushClosesPartialGroups(t *testing.T) {
	reg := label.New()
	keyNest := buildNest(reg, "KEY")
	valueNest := buildNest(reg, "VAL")
	g := NewGroupEvents(reg, keyNest, 10)
	g.SetValueSearch(valueNest)

	rec := tuple.New(reg, tuple.Small)
	k := wsdata.NewString("a")
	k.AttachLabel(reg.Register("KEY"))
	require.NoError(t, rec.AddMember(k))
	v := wsdata.NewString("one")
	v.AttachLabel(reg.Register("VAL"))
	require.NoError(t, rec.AddMember(v))

	out, err := g.Update(rec)
	require.NoError(t, err)
	require.Nil(t, out)

	flushed := g.Flush()
	require.Len(t, flushed, 1)
	require.Equal(t, 2, flushed[0].Len())
}
