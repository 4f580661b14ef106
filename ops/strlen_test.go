package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

func TestStrLenEmitsLength(t *testing.T) {
	reg := label.New()
	src := reg.RegisterIndexed("BUF")
	s := NewStrLen(reg, src, label.Label{})

	rec := tuple.New(reg, tuple.Small)
	m := wsdata.NewString("hello")
	m.AttachLabel(src)
	require.NoError(t, rec.AddMember(m))

	require.NoError(t, s.Apply(rec))

	out := rec.Find(reg.Register("STRLEN"))
	require.Len(t, out, 1)
	v, _ := out[0].GetUint()
	require.EqualValues(t, 5, v)
}

func TestStrLenConditionGate(t *testing.T) {
	reg := label.New()
	src := reg.RegisterIndexed("BUF")
	s := NewStrLen(reg, src, label.Label{})
	s.SetCondition(ConditionGT, 10)

	rec := tuple.New(reg, tuple.Small)
	m := wsdata.NewString("short")
	m.AttachLabel(src)
	require.NoError(t, rec.AddMember(m))

	require.NoError(t, s.Apply(rec))
	require.Empty(t, rec.Find(reg.Register("STRLEN")))
}
