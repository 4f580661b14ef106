package wsdata

import "github.com/flowkit/flowkit/internal/pool"

// leafPools holds one recycling pool per scalar Kind, the same
// per-allocation-class pooling style as a fixed-size cell allocator,
// applied here to leaf records so every scalar Kind recycles through its
// own free list instead of sharing one undifferentiated pool.
var leafPools = [KindBinary + 1]*pool.Pool[Record]{}

func init() {
	for k := KindUint64; k <= KindBinary; k++ {
		leafPools[k] = pool.New(func() *Record { return &Record{} }, (*Record).reset)
	}
}

func getLeaf(k Kind) *Record {
	r := leafPools[k].Get()
	r.Kind = k
	r.onZero = releaseLeaf
	return r
}

func releaseLeaf(r *Record) {
	leafPools[r.Kind].Put(r)
}
