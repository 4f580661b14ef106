package ops

import (
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// RemoveNest strips matched nested members out of a tuple. Matches are
// collected into a tuple.ExcludeSet and the tuple is rebuilt with
// tuple.DeepCopy; if nothing matched, the input tuple passes through
// unchanged.
type RemoveNest struct {
	nest *label.NestedLabelSet
}

// NewRemoveNest builds a RemoveNest matching nest.
func NewRemoveNest(nest *label.NestedLabelSet) *RemoveNest {
	return &RemoveNest{nest: nest}
}

// Apply returns a copy of rec with every member matched by nest removed,
// or rec itself unchanged if nothing matched.
func (r *RemoveNest) Apply(rec *tuple.Tuple) (*tuple.Tuple, error) {
	exclude := tuple.NewExcludeSet()
	found, err := tuple.NestedSearch(rec, r.nest, func(m *wsdata.Record) error {
		exclude.Exclude(m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == 0 {
		return rec, nil
	}
	return tuple.DeepCopy(rec, exclude), nil
}
