package ops

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

func TestDuplicatesLabelsRepeatWithinEvent(t *testing.T) {
	reg := label.New()
	val := reg.RegisterIndexed("VAL")
	dupeLabel := reg.RegisterIndexed("DUPLICATE")
	nest := &label.NestedLabelSet{}
	reg.AddPath(nest, "VAL")

	d := NewDuplicates(nest, 4096, dupeLabel, label.Label{})

	rec1 := tuple.New(reg, tuple.Small)
	m1 := wsdata.NewString("alice")
	m1.AttachLabel(val)
	require.NoError(t, rec1.AddMember(m1))
	m1b := wsdata.NewString("alice")
	m1b.AttachLabel(val)
	require.NoError(t, rec1.AddMember(m1b))
	require.NoError(t, d.Apply(rec1))
	require.False(t, m1.HasLabel(dupeLabel))
	require.True(t, m1b.HasLabel(dupeLabel))

	rec2 := tuple.New(reg, tuple.Small)
	m2 := wsdata.NewString("alice")
	m2.AttachLabel(val)
	require.NoError(t, rec2.AddMember(m2))
	require.NoError(t, d.Apply(rec2))
	require.False(t, m2.HasLabel(dupeLabel))
}
