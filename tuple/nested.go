package tuple

import (
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/wsdata"
)

// NestedSearch walks set's label tree against t: a terminal entry invokes
// cb for every matching member, while a non-terminal entry recurses into
// the matching member's own nested tuple (matching label.NestedLabelSet's
// "A.B.C" dotted-path structure). It returns the total number of cb
// invocations across the whole recursion, stopping early if cb returns an
// error.
func NestedSearch(t *Tuple, set *label.NestedLabelSet, cb func(*wsdata.Record) error) (int, error) {
	count := 0
	for _, e := range set.Entries {
		for _, m := range t.Find(e.Label) {
			if e.Terminal() {
				if err := cb(m); err != nil {
					return count, err
				}
				count++
				continue
			}
			child, ok := AsTuple(m)
			if !ok {
				continue
			}
			n, err := NestedSearch(child, e.Child, cb)
			count += n
			if err != nil {
				return count, err
			}
		}
	}
	return count, nil
}
