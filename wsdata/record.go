package wsdata

import (
	"sync"
	"sync/atomic"

	"github.com/flowkit/flowkit/label"
)

// Kind identifies the concrete type a Record carries: a small, fixed,
// inspectable tag rather than an open interface hierarchy, matching the
// tagged-union style the rest of the engine (kid.Descriptor, tuple.Class)
// also follows.
type Kind uint8

const (
	KindUint64 Kind = iota
	KindInt64
	KindDouble
	KindTimestamp
	KindString
	KindBinary
	// KindTuple is reserved for tuple.Tuple, which embeds Record directly;
	// wsdata never constructs a bare Record of this kind itself.
	KindTuple
)

func (k Kind) String() string {
	switch k {
	case KindUint64:
		return "uint64"
	case KindInt64:
		return "int64"
	case KindDouble:
		return "double"
	case KindTimestamp:
		return "timestamp"
	case KindString:
		return "string"
	case KindBinary:
		return "binary"
	case KindTuple:
		return "tuple"
	default:
		return "unknown"
	}
}

// Timestamp hashes over its (sec, usec) pair.
type Timestamp struct {
	Sec  int64
	Usec int64
}

// Record is the reference-counted, label-indexed value that travels along
// edges in the dataflow graph. Its payload fields are a tagged union keyed
// by Kind; only the field matching Kind is meaningful.
type Record struct {
	Kind   Kind
	Labels []label.Label

	// Depend is a record whose lifetime this one depends on -- used when
	// this Record borrows a slice of a parent buffer (e.g. a sub-slice of
	// a larger binary payload). Detach propagates to Depend once this
	// record's own refcount reaches zero.
	Depend *Record

	mu       sync.Mutex
	refcount atomic.Int32

	// onZero, if set, is invoked exactly once when refcount drops to
	// zero, before Depend is detached. Leaf kinds use it to return the
	// Record to their per-kind pool; tuple.Tuple uses it to release the
	// tuple body chain.
	onZero func(*Record)

	u64 uint64
	i64 int64
	f64 float64
	ts  Timestamp
	str string
	bin []byte

	// self optionally holds the concrete type embedding this Record (e.g.
	// *tuple.Tuple), letting code that only holds a *Record recover the
	// container via a type assertion. nil for bare leaf records.
	self any
}

// SetSelf records the concrete embedding type for this Record. Container
// types (tuple.Tuple) call this once at construction.
func (r *Record) SetSelf(v any) { r.self = v }

// Self returns whatever was passed to SetSelf, or nil for a bare leaf.
func (r *Record) Self() any { return r.self }

// SetOnZero installs the callback run when the refcount reaches zero,
// before Depend is detached. Container types use this to release their
// backing body instead of returning to a leaf pool.
func (r *Record) SetOnZero(fn func(*Record)) { r.onZero = fn }

// Lock acquires the record's own lock (used during growth/mutation that
// must be serialized against concurrent readers of the same record).
func (r *Record) Lock() { r.mu.Lock() }

// Unlock releases the record's own lock.
func (r *Record) Unlock() { r.mu.Unlock() }

// Attach increments the reference count. Call this whenever a Record is
// stored somewhere with its own lifetime: attached to a tuple, placed in a
// keyed-state slot, or queued on an output.
func (r *Record) Attach() {
	r.refcount.Add(1)
}

// Detach decrements the reference count and releases the record (running
// onZero, then detaching Depend) when it reaches zero. Detach on an
// already-zero record is a programming error and panics; callers in this
// codebase never call it more times than they called Attach.
func (r *Record) Detach() {
	n := r.refcount.Add(-1)
	switch {
	case n > 0:
		return
	case n == 0:
		if r.onZero != nil {
			r.onZero(r)
		}
		if r.Depend != nil {
			r.Depend.Detach()
			r.Depend = nil
		}
	default:
		panic("wsdata: Detach called more often than Attach")
	}
}

// RefCount returns the current reference count (for tests/diagnostics).
func (r *Record) RefCount() int32 { return r.refcount.Load() }

// reset clears a Record for reuse from a pool. Kind and the scalar payload
// fields are overwritten by the constructor that hands the Record back
// out; Labels is truncated (not nilled) so its backing array is reused.
func (r *Record) reset() {
	r.Labels = r.Labels[:0]
	r.Depend = nil
	r.onZero = nil
	r.refcount.Store(0)
	r.bin = nil
	r.str = ""
}

// AttachLabel appends l to the record's label list. It does not update any
// tuple inverted index; tuple.AddMember does that at insertion time by
// reading Labels.
func (r *Record) AttachLabel(l label.Label) {
	r.Labels = append(r.Labels, l)
}

// HasLabel reports whether l is present in Labels.
func (r *Record) HasLabel(l label.Label) bool {
	for _, have := range r.Labels {
		if have == l {
			return true
		}
	}
	return false
}
