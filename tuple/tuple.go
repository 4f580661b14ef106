package tuple

import (
	"runtime"
	"sync/atomic"

	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/wsdata"
)

// Tuple is a container-shaped record: it embeds wsdata.Record (Kind is
// always KindTuple) and stores its members in a growable, label-indexed
// body swapped atomically on growth.
type Tuple struct {
	wsdata.Record

	body atomic.Pointer[tupleBody]
	reg  *label.Registry
}

// New returns an empty tuple allocated at the given starting class.
func New(reg *label.Registry, class Class) *Tuple {
	t := &Tuple{reg: reg}
	t.Kind = wsdata.KindTuple
	t.SetSelf(t)
	t.SetOnZero(func(*wsdata.Record) { t.release() })
	b := allocBody(class, capacityFor(class), reg.IndexLen())
	t.body.Store(b)
	return t
}

// NewFromSlice wraps an existing, already-populated member slice as a
// borrowed tuple body. The tuple cannot grow (AddMember returns
// ErrBorrowedNoGrow); this is used when a tuple is sliced out of a parent
// buffer rather than built up one member at a time.
func NewFromSlice(reg *label.Registry, members []*wsdata.Record) *Tuple {
	t := &Tuple{reg: reg}
	t.Kind = wsdata.KindTuple
	t.SetSelf(t)
	t.SetOnZero(func(*wsdata.Record) { t.release() })
	b := newBody(Huge, int32(len(members)), reg.IndexLen())
	b.borrowed = true
	copy(b.members, members)
	b.writeIdx.Store(int32(len(members)))
	b.published.Store(int32(len(members)))
	for _, m := range members {
		indexMember(b, m)
	}
	t.body.Store(b)
	return t
}

func (t *Tuple) release() {
	b := t.body.Load()
	n := int(b.published.Load())
	for _, m := range b.members[:n] {
		if m != nil {
			m.Detach()
		}
	}
	if !b.borrowed {
		releaseBody(b)
	}
}

// AsTuple recovers the concrete *Tuple behind a member record, when that
// member is itself a nested tuple.
func AsTuple(r *wsdata.Record) (*Tuple, bool) {
	if r == nil || r.Kind != wsdata.KindTuple {
		return nil, false
	}
	t, ok := r.Self().(*Tuple)
	return t, ok
}

// Len returns the number of published members.
func (t *Tuple) Len() int {
	b := t.body.Load()
	return int(b.published.Load())
}

// Members returns the published member slice. Callers must not retain it
// across a concurrent AddMember/grow.
func (t *Tuple) Members() []*wsdata.Record {
	b := t.body.Load()
	n := int(b.published.Load())
	return b.members[:n]
}

// Dropped returns the number of index-bucket writes discarded because a
// bucket had already reached the body's member capacity or the label's
// index id was beyond the body's index.
func (t *Tuple) Dropped() int32 {
	return t.body.Load().dropped.Load()
}

// indexMember appends m into every inverted-index bucket named by its
// indexed labels, capped at b.max entries per bucket; overflow (or an
// index id beyond the body's index) increments b.dropped rather than
// failing the insert. Unindexed labels are skipped.
func indexMember(b *tupleBody, m *wsdata.Record) {
	for _, l := range m.Labels {
		if l.IndexID == 0 {
			continue
		}
		if int(l.IndexID) >= len(b.index) {
			b.dropped.Add(1)
			continue
		}
		bk := b.index[l.IndexID]
		if int32(len(bk)) >= b.max {
			b.dropped.Add(1)
			continue
		}
		b.index[l.IndexID] = append(bk, m)
	}
}

// AddMember runs the full insert protocol: atomic claim, double-checked
// growth on overflow, in-order publish, refcount attach, and
// inverted-index insertion.
func (t *Tuple) AddMember(m *wsdata.Record) error {
	for {
		b := t.body.Load()
		if b.borrowed {
			return ErrBorrowedNoGrow
		}

		s := b.writeIdx.Add(1) - 1
		if s >= b.max {
			grew, err := t.grow(b)
			if err != nil {
				return err
			}
			if grew {
				continue
			}
			return ErrMaxLenExceeded
		}

		b.members[s] = m
		for b.published.Load() != s {
			runtime.Gosched()
		}
		m.Attach()
		indexMember(b, m)
		b.published.Store(s + 1)
		return nil
	}
}

// grow promotes old to the next capacity class, copying members and index
// buckets across and swapping the tuple's current body pointer. It is
// double-checked under the tuple's own lock (inherited from Record) so
// concurrent AddMember callers that lose the growth race simply retry
// against the already-grown body.
func (t *Tuple) grow(old *tupleBody) (bool, error) {
	t.Lock()
	defer t.Unlock()

	cur := t.body.Load()
	if cur != old {
		return true, nil
	}
	if old.max >= MaxLen {
		return false, ErrMaxLenExceeded
	}

	nextClass, nextMax := growCapacity(old.class, old.max)
	if nextMax <= old.max {
		return false, ErrMaxLenExceeded
	}

	nb := allocBody(nextClass, nextMax, t.reg.IndexLen())
	copy(nb.members, old.members)
	for i, bk := range old.index {
		if i < len(nb.index) {
			nb.index[i] = append(nb.index[i][:0], bk...)
		}
	}
	nb.writeIdx.Store(old.max)
	nb.published.Store(old.max)
	nb.prev = old
	t.body.Store(nb)
	return true, nil
}

// Find returns every member currently carrying label l, or nil if l was
// never assigned a dense IndexID.
func (t *Tuple) Find(l label.Label) []*wsdata.Record {
	if l.IndexID == 0 {
		return nil
	}
	b := t.body.Load()
	if int(l.IndexID) >= len(b.index) {
		return nil
	}
	return b.index[l.IndexID]
}
