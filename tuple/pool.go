package tuple

import "sync"

// classFreeList pools tupleBody values for one capacity class: bodies are
// segregated by size class so a claim never has to grow a body shared
// with a different class. A pooled body is discarded rather than reused
// once its inverted index falls out of date with label.Registry.IndexLen
// (see allocBody).
type classFreeList struct {
	mu   sync.Mutex
	free []*tupleBody
}

// get pops a body whose index was built for the current indexLen. Stale
// bodies encountered along the way are dropped, not recycled.
func (f *classFreeList) get(indexLen uint32) *tupleBody {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.free) > 0 {
		n := len(f.free) - 1
		b := f.free[n]
		f.free[n] = nil
		f.free = f.free[:n]
		if b.indexLen == indexLen {
			return b
		}
	}
	return nil
}

func (f *classFreeList) put(b *tupleBody) {
	f.mu.Lock()
	f.free = append(f.free, b)
	f.mu.Unlock()
}

// Huge bodies are never pooled: they're one-off allocations that grow by
// replacement with a larger body, so recycling them buys nothing and only
// pins their largest size.
var (
	smallFreeList  classFreeList
	mediumFreeList classFreeList
	largeFreeList  classFreeList
)

func freeListFor(c Class) *classFreeList {
	switch c {
	case Small:
		return &smallFreeList
	case Medium:
		return &mediumFreeList
	case Large:
		return &largeFreeList
	default:
		return nil
	}
}
