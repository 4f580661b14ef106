package label

// Entry is a single label inside a LabelSet, optionally annotated with a
// nesting id. Nothing in this module reads NestingID; NestedLabelSet trees
// are built by Registry.AddPath.
type Entry struct {
	Label     Label
	NestingID int
}

// LabelSet is an ordered list of labels, each optionally annotated with a
// nesting id. Tuple hashing (tuple.HashLabelSet) walks a flat LabelSet;
// nested search (tuple.NestedSearch) walks a NestedLabelSet tree built from
// one or more dotted paths.
type LabelSet []Entry

// Labels returns just the Label values, in order.
func (s LabelSet) Labels() []Label {
	out := make([]Label, len(s))
	for i, e := range s {
		out[i] = e.Label
	}
	return out
}
