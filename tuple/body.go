package tuple

import (
	"sync"
	"sync/atomic"

	"github.com/flowkit/flowkit/wsdata"
)

// bucket is the inverted-index entry for one label.IndexID: every member
// currently carrying that label, in insertion order.
type bucket []*wsdata.Record

// tupleBody is the growable payload behind a Tuple. Growth replaces the
// body wholesale rather than mutating it in place (see Tuple.grow); prev
// links the chain of superseded bodies purely for debugging, nothing reads
// it on the hot path.
type tupleBody struct {
	class    Class
	max      int32
	writeIdx atomic.Int32 // next claim ticket
	published atomic.Int32 // members[:published] is safe to read
	dropped  atomic.Int32 // index-bucket overflow / out-of-range index id count

	members []*wsdata.Record
	index   []bucket
	// indexLen is the label.Registry.IndexLen() this body's index array
	// was sized against. A pooled body whose indexLen no longer matches
	// the live registry is stale and must not be reused.
	indexLen uint32

	borrowed bool
	prev     *tupleBody

	mu sync.Mutex
}

func newBody(class Class, max int32, indexLen uint32) *tupleBody {
	return &tupleBody{
		class: class,
		max:   max,
		members: make([]*wsdata.Record, max),
		// +1: label.IndexID is 1-based, so a registry with indexLen ids
		// assigned needs slots [0, indexLen] to index directly by IndexID.
		index:    make([]bucket, indexLen+1),
		indexLen: indexLen,
	}
}

// allocBody pops a non-stale body of the given class from its free list, or
// builds a fresh one if the pool is empty or every candidate was stale.
func allocBody(class Class, max int32, indexLen uint32) *tupleBody {
	if fl := freeListFor(class); fl != nil {
		if b := fl.get(indexLen); b != nil {
			return b
		}
	}
	return newBody(class, max, indexLen)
}

// releaseBody clears a body and returns it to its class's free list. Huge
// bodies have no free list and are simply dropped for GC.
func releaseBody(b *tupleBody) {
	fl := freeListFor(b.class)
	if fl == nil {
		return
	}
	for i := range b.members {
		b.members[i] = nil
	}
	for i := range b.index {
		b.index[i] = b.index[i][:0]
	}
	b.writeIdx.Store(0)
	b.published.Store(0)
	b.dropped.Store(0)
	b.prev = nil
	b.borrowed = false
	fl.put(b)
}
