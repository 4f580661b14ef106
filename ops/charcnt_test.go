package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

func TestCharCntDefaultsToEquals(t *testing.T) {
	reg := label.New()
	src := reg.RegisterIndexed("BUF")
	c := NewCharCnt(reg, src, label.Label{}, label.Label{})

	rec := tuple.New(reg, tuple.Small)
	m := wsdata.NewString("a=b=c")
	m.AttachLabel(src)
	require.NoError(t, rec.AddMember(m))

	require.NoError(t, c.Apply(rec))

	out := rec.Find(reg.Register("CHARCNT"))
	require.Len(t, out, 1)
	v, ok := out[0].GetUint()
	require.True(t, ok)
	require.EqualValues(t, 2, v)
}

func TestCharCntCustomDictionaryAndExtraLabel(t *testing.T) {
	reg := label.New()
	src := reg.RegisterIndexed("BUF")
	extra := reg.RegisterIndexed("EXTRA")
	c := NewCharCnt(reg, src, label.Label{}, extra)
	require.NoError(t, c.SetDictionary("3d:20"))

	rec := tuple.New(reg, tuple.Small)
	m := wsdata.NewString("a = b = c")
	m.AttachLabel(src)
	require.NoError(t, rec.AddMember(m))

	require.NoError(t, c.Apply(rec))

	out := rec.Find(extra)
	require.Len(t, out, 1)
	v, ok := out[0].GetUint()
	require.True(t, ok)
	require.EqualValues(t, 6, v)
}
