package state

// Walker steps through a Table's keys one key per call instead of
// blocking on a single full scan, trading recursion for an explicit
// cursor over a snapshotted traversal list. Next re-snapshots the key set
// whenever the cursor runs off the end, so a slow consumer still makes
// bounded, O(1)-amortized progress per call even while the table is being
// mutated concurrently.
type Walker struct {
	t      *Table
	keys   []uint64
	cursor int
	loop   int
}

// Next advances one step. loopedNow is true exactly on the calls where the
// walker re-snapshots the key list (including the very first call). Every
// re-snapshot after the first marks a completed pass and increments the
// walker's loop counter.
func (w *Walker) Next() (key uint64, slot *Slot, loopedNow bool) {
	if w.cursor >= len(w.keys) {
		if w.keys != nil {
			w.loop++
		}
		w.t.mu.Lock()
		w.keys = w.t.cache.Keys()
		w.t.mu.Unlock()
		w.cursor = 0
		loopedNow = true

		if len(w.keys) == 0 {
			return 0, nil, loopedNow
		}
	}

	key = w.keys[w.cursor]
	w.cursor++

	slot, ok := w.t.Find(Key(key))
	if !ok {
		return key, nil, loopedNow
	}
	return key, slot, loopedNow
}

// Loop returns the number of completed passes over the key set.
func (w *Walker) Loop() int { return w.loop }
