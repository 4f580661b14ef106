package state

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindAttachCreatesZeroedSlot(t *testing.T) {
	tbl := New(4, 8)
	slot := tbl.FindAttach(Key(1))
	require.Equal(t, make([]byte, 8), slot.Data)
	slot.Data[0] = 0xFF
	slot.Unlock()

	again := tbl.FindAttach(Key(1))
	require.Equal(t, byte(0xFF), again.Data[0])
	again.Unlock()
}

func TestFindMissingReturnsFalse(t *testing.T) {
	tbl := New(4, 8)
	_, ok := tbl.Find(Key(99))
	require.False(t, ok)
}

func TestEvictionCallsOnEvict(t *testing.T) {
	var evicted []uint64
	tbl := New(2, 4, WithOnEvict(func(s *Slot) {
		evicted = append(evicted, s.Key())
	}))

	tbl.FindAttach(Key(1)).Unlock()
	tbl.FindAttach(Key(2)).Unlock()
	tbl.FindAttach(Key(3)).Unlock() // evicts key 1 (least recently used)

	require.Equal(t, []uint64{1}, evicted)
	require.Equal(t, 2, tbl.Len())
}

func TestDeleteRunsOnEvict(t *testing.T) {
	var evicted bool
	tbl := New(4, 4, WithOnEvict(func(*Slot) { evicted = true }))
	tbl.FindAttach(Key(1)).Unlock()
	tbl.Delete(Key(1))

	require.True(t, evicted)
	_, ok := tbl.Find(Key(1))
	require.False(t, ok)
}

func TestScourVisitsEveryLiveSlot(t *testing.T) {
	tbl := New(4, 4)
	tbl.FindAttach(Key(1)).Unlock()
	tbl.FindAttach(Key(2)).Unlock()
	tbl.FindAttach(Key(3)).Unlock()

	seen := map[uint64]bool{}
	tbl.Scour(func(s *Slot) { seen[s.Key()] = true })
	require.Len(t, seen, 3)
}

func TestScourAndFlushEmptiesTable(t *testing.T) {
	tbl := New(4, 4)
	tbl.FindAttach(Key(1)).Unlock()
	tbl.FindAttach(Key(2)).Unlock()

	tbl.ScourAndFlush(func(*Slot) {})
	require.Equal(t, 0, tbl.Len())
}

func TestWalkerAdvancesAndLoops(t *testing.T) {
	tbl := New(4, 4)
	tbl.FindAttach(Key(1)).Unlock()
	tbl.FindAttach(Key(2)).Unlock()

	w := tbl.Walker()
	seen := map[uint64]bool{}
	var loopedCount int
	for i := 0; i < 4; i++ {
		key, slot, looped := w.Next()
		if looped {
			loopedCount++
		}
		if slot != nil {
			seen[key] = true
			slot.Unlock()
		}
	}
	require.Len(t, seen, 2)
	require.GreaterOrEqual(t, w.Loop(), 1)
	require.GreaterOrEqual(t, loopedCount, 1)
}

func TestShareBindsByLabel(t *testing.T) {
	a := Share("test-share-bind", 4, 4, nil)
	b := Share("test-share-bind", 16, 16, nil)
	require.Same(t, a, b)
}
