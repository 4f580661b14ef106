package tuple

import (
	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/label"
)

// HashLabelSet folds every member matching a label in set through
// internal/wire.Mix64, seeded by seed. The ordered variant mixes each
// label's position into the accumulator before folding, so permuting
// members changes the hash; the unordered variant XORs per-label partial
// hashes together, so member order doesn't matter.
func HashLabelSet(t *Tuple, set label.LabelSet, seed uint64, ordered bool) uint64 {
	acc := seed
	for i, e := range set {
		for _, m := range t.Find(e.Label) {
			data, ok := m.HashRange()
			if !ok {
				continue
			}
			if ordered {
				acc = wire.CombineOrdered(acc, i, data)
			} else {
				acc = wire.CombineUnordered(acc, seed, data)
			}
		}
	}
	return acc
}
