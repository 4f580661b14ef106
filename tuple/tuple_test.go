package tuple

import (
	"testing"

	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/wsdata"
	"github.com/stretchr/testify/require"
)

func TestAddMemberAndFind(t *testing.T) {
	reg := label.New()
	lname := reg.RegisterIndexed("name")

	tup := New(reg, Small)
	m := wsdata.NewString("alice")
	m.AttachLabel(lname)
	require.NoError(t, tup.AddMember(m))

	require.Equal(t, 1, tup.Len())
	found := tup.Find(lname)
	require.Len(t, found, 1)
	require.Same(t, m, found[0])
	require.EqualValues(t, 1, m.RefCount())
}

func TestGrowthAcrossClasses(t *testing.T) {
	reg := label.New()
	lid := reg.RegisterIndexed("id")

	tup := New(reg, Small)
	const n = capSmall + capMedium + 5 // force Small -> Medium -> Large
	for i := 0; i < n; i++ {
		m := wsdata.NewUint64(uint64(i))
		m.AttachLabel(lid)
		require.NoError(t, tup.AddMember(m))
	}
	require.Equal(t, n, tup.Len())
	require.Len(t, tup.Find(lid), n)
}

func TestAddMemberBorrowedNoGrow(t *testing.T) {
	reg := label.New()
	m1 := wsdata.NewUint64(1)
	tup := NewFromSlice(reg, []*wsdata.Record{m1})

	require.Equal(t, 1, tup.Len())
	err := tup.AddMember(wsdata.NewUint64(2))
	require.ErrorIs(t, err, ErrBorrowedNoGrow)
}

func TestDeepCopyReattachesRefcount(t *testing.T) {
	reg := label.New()
	lname := reg.RegisterIndexed("name")

	orig := New(reg, Small)
	m := wsdata.NewString("bob")
	m.AttachLabel(lname)
	require.NoError(t, orig.AddMember(m))

	cp := DeepCopy(orig, nil)
	require.Equal(t, 1, cp.Len())
	require.EqualValues(t, 2, m.RefCount())
	require.Same(t, m, cp.Find(lname)[0])
}

func TestDeepCopyExcludesMarkedMembers(t *testing.T) {
	reg := label.New()
	lname := reg.RegisterIndexed("name")

	orig := New(reg, Small)
	keep := wsdata.NewString("keep")
	keep.AttachLabel(lname)
	drop := wsdata.NewString("drop")
	drop.AttachLabel(lname)
	require.NoError(t, orig.AddMember(keep))
	require.NoError(t, orig.AddMember(drop))

	excl := NewExcludeSet()
	excl.Exclude(drop)

	cp := DeepCopy(orig, excl)
	require.Equal(t, 1, cp.Len())
	require.Same(t, keep, cp.Members()[0])
}

func TestNestedSearchRecursesIntoChildTuple(t *testing.T) {
	reg := label.New()
	lchild := reg.RegisterIndexed("child")
	lleaf := reg.RegisterIndexed("leaf")

	child := New(reg, Small)
	leaf := wsdata.NewUint64(42)
	leaf.AttachLabel(lleaf)
	require.NoError(t, child.AddMember(leaf))

	root := New(reg, Small)
	childMember := &child.Record
	childMember.AttachLabel(lchild)
	require.NoError(t, root.AddMember(childMember))

	set := &label.NestedLabelSet{
		Entries: []label.NestedEntry{
			{
				Label: lchild,
				Child: &label.NestedLabelSet{
					Entries: []label.NestedEntry{{Label: lleaf}},
				},
			},
		},
	}

	var seen []*wsdata.Record
	count, err := NestedSearch(root, set, func(r *wsdata.Record) error {
		seen = append(seen, r)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 1, count)
	require.Same(t, leaf, seen[0])
}

func TestHashLabelSetOrderedVsUnordered(t *testing.T) {
	reg := label.New()
	la := reg.RegisterIndexed("a")
	lb := reg.RegisterIndexed("b")

	t1 := New(reg, Small)
	ma := wsdata.NewUint64(1)
	ma.AttachLabel(la)
	mb := wsdata.NewUint64(2)
	mb.AttachLabel(lb)
	require.NoError(t, t1.AddMember(ma))
	require.NoError(t, t1.AddMember(mb))

	set := label.LabelSet{{Label: la}, {Label: lb}}
	setReversed := label.LabelSet{{Label: lb}, {Label: la}}

	orderedA := HashLabelSet(t1, set, 0, true)
	orderedB := HashLabelSet(t1, setReversed, 0, true)
	require.NotEqual(t, orderedA, orderedB)

	unorderedA := HashLabelSet(t1, set, 0, false)
	unorderedB := HashLabelSet(t1, setReversed, 0, false)
	require.Equal(t, unorderedA, unorderedB)
}

func TestGrowCapacityCapsAtMaxLen(t *testing.T) {
	class, max := growCapacity(Large, capLarge)
	require.Equal(t, Huge, class)
	require.Equal(t, int32(capHuge), max)

	_, max2 := growCapacity(Huge, MaxLen)
	require.LessOrEqual(t, max2, int32(MaxLen))
}
