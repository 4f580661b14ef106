package ops

import (
	"sync"

	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// keysortEntry is one buffered (sort value, record) pair in a key's
// insertion-sorted array.
type keysortEntry struct {
	value float64
	rec   *wsdata.Record
}

// keysortState holds one key's entries, kept insertion-sorted by value up
// to maxCount. Like groupevents, this can't live in a fixed-size
// state.Slot since it holds a variable number of live record references,
// so keysort keeps its own map rather than using kid.Harness.
type keysortState struct {
	entries []keysortEntry
}

// KeySort maintains a fixed-size, per-key window of up to maxCount
// values, sorted by a numeric value member. Below capacity,
// values accumulate with no output; once the window is full, each new
// event streams a single displaced or stale record downstream (see
// Update), and the window's remaining contents only leave as one ordered
// tuple on flush/expire.
type KeySort struct {
	mu    sync.Mutex
	reg   *label.Registry
	state map[uint64]*keysortState

	keyNest   *label.NestedLabelSet
	valueNest *label.NestedLabelSet
	maxCount  int
	ascending bool

	outputLabel label.Label
}

// NewKeySort builds a KeySort keying on keyNest and sorting buffered
// entries by the first match of valueNest, buffering up to maxCount
// entries per key (20 if maxCount <= 0).
func NewKeySort(reg *label.Registry, keyNest, valueNest *label.NestedLabelSet, maxCount int) *KeySort {
	if maxCount <= 0 {
		maxCount = 20
	}
	return &KeySort{
		reg:       reg,
		state:     make(map[uint64]*keysortState),
		keyNest:   keyNest,
		valueNest: valueNest,
		maxCount:  maxCount,
		ascending: true,
	}
}

// SetDescending sorts entries largest-value-first instead of the default
// ascending order.
func (k *KeySort) SetDescending(b bool) { k.ascending = !b }

// SetOutputLabel tags every emitted sorted tuple with l.
func (k *KeySort) SetOutputLabel(l label.Label) { k.outputLabel = l }

func numericValue(r *wsdata.Record) (float64, bool) {
	if v, ok := r.GetDouble(); ok {
		return v, true
	}
	if v, ok := r.GetInt(); ok {
		return float64(v), true
	}
	if v, ok := r.GetUint(); ok {
		return float64(v), true
	}
	return 0, false
}

func (k *KeySort) less(a, b float64) bool {
	if k.ascending {
		return a < b
	}
	return a > b
}

// insert performs an in-order fast-path append when value already sorts
// after the last entry, falling back to a shift-insertion scan otherwise.
func (k *KeySort) insert(st *keysortState, value float64, rec *wsdata.Record) {
	n := len(st.entries)
	if n == 0 || !k.less(value, st.entries[n-1].value) {
		st.entries = append(st.entries, keysortEntry{value: value, rec: rec})
		return
	}
	pos := 0
	for pos < n && !k.less(value, st.entries[pos].value) {
		pos++
	}
	st.entries = append(st.entries, keysortEntry{})
	copy(st.entries[pos+1:], st.entries[pos:n])
	st.entries[pos] = keysortEntry{value: value, rec: rec}
}

func (k *KeySort) buildLocked(st *keysortState) *tuple.Tuple {
	if len(st.entries) == 0 {
		return nil
	}
	out := tuple.New(k.reg, tuple.Small)
	if !k.outputLabel.Zero() {
		out.AttachLabel(k.outputLabel)
	}
	for _, e := range st.entries {
		_ = out.AddMember(e.rec)
		e.rec.Detach()
	}
	st.entries = nil
	return out
}

// buildSingle wraps rec alone in a standalone output tuple: used for a
// stale (below-window) record passed through unsorted, and for a
// displaced oldest entry evicted by a newer in-window value.
func (k *KeySort) buildSingle(rec *wsdata.Record) *tuple.Tuple {
	out := tuple.New(k.reg, tuple.Small)
	if !k.outputLabel.Zero() {
		out.AttachLabel(k.outputLabel)
	}
	_ = out.AddMember(rec)
	return out
}

// Update buffers rec's value under its key in a fixed-size circular sort
// window. Below capacity, values are simply insertion-sorted with no
// emission. Once the window is full, every further event resolves one of
// three ways: a value at or beyond the window's top end is appended and
// displaces (emits) the current oldest entry; a value below the window's
// bottom end is stale and is emitted immediately, unsorted, without
// entering the window; anything between the two is inserted into its
// sorted slot, also displacing (emitting) the current oldest entry.
func (k *KeySort) Update(rec *tuple.Tuple) (*tuple.Tuple, error) {
	keyRec := firstMatch(rec, k.keyNest)
	if keyRec == nil {
		return nil, nil
	}
	h, ok := keyHashOf(keyRec)
	if !ok {
		return nil, nil
	}
	valRec := firstMatch(rec, k.valueNest)
	if valRec == nil {
		return nil, nil
	}
	value, ok := numericValue(valRec)
	if !ok {
		return nil, nil
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	st, ok := k.state[h]
	if !ok {
		st = &keysortState{}
		k.state[h] = st
	}

	if len(st.entries) < k.maxCount {
		valRec.Attach()
		k.insert(st, value, valRec)
		return nil, nil
	}

	oldest := st.entries[0]
	newest := st.entries[len(st.entries)-1]

	switch {
	case !k.less(value, newest.value):
		valRec.Attach()
		copy(st.entries, st.entries[1:])
		st.entries[len(st.entries)-1] = keysortEntry{value: value, rec: valRec}
		out := k.buildSingle(oldest.rec)
		oldest.rec.Detach()
		return out, nil

	case k.less(value, oldest.value):
		return k.buildSingle(valRec), nil

	default:
		valRec.Attach()
		rest := st.entries[1:]
		shifted := make([]keysortEntry, 0, k.maxCount)
		inserted := false
		for _, e := range rest {
			if !inserted && k.less(value, e.value) {
				shifted = append(shifted, keysortEntry{value: value, rec: valRec})
				inserted = true
			}
			shifted = append(shifted, e)
		}
		if !inserted {
			shifted = append(shifted, keysortEntry{value: value, rec: valRec})
		}
		st.entries = shifted
		out := k.buildSingle(oldest.rec)
		oldest.rec.Detach()
		return out, nil
	}
}

// Flush emits every buffered key's entries (FLUSH/EXPIRE port).
func (k *KeySort) Flush() []*tuple.Tuple {
	k.mu.Lock()
	defer k.mu.Unlock()

	out := make([]*tuple.Tuple, 0, len(k.state))
	for h, st := range k.state {
		if t := k.buildLocked(st); t != nil {
			out = append(out, t)
		}
		delete(k.state, h)
	}
	return out
}
