package label

import "strings"

// NestedEntry is one branch of a NestedLabelSet: a label to match against a
// tuple member, plus either a Child set to recurse into (when the matching
// member is itself a tuple) or no child (a terminal, "invoke the callback"
// leaf).
type NestedEntry struct {
	Label Label
	Child *NestedLabelSet
}

// Terminal reports whether this entry is a leaf (direct callback) rather
// than a recursion point.
func (e NestedEntry) Terminal() bool { return e.Child == nil }

// NestedLabelSet is a tree of label sets representing one or more dotted
// paths ("A.B.C"). tuple.NestedSearch walks it: at each level, entries
// with a child recurse into matching tuple-typed members; terminal
// entries invoke the caller's callback for every matching member.
type NestedLabelSet struct {
	Entries []NestedEntry
}

// AddPath interns each dotted-path component as an indexed label (nested
// search depends on O(1) bucket lookup at every level) and merges the
// resulting chain into set, sharing any existing prefix. Multiple calls to
// AddPath build a set with multiple root branches, mirroring the original
// wslabel_nested_search_build's ability to accumulate several -V/key
// arguments into one combined structure.
func (r *Registry) AddPath(set *NestedLabelSet, path string) {
	parts := strings.Split(path, ".")
	set.insert(r, parts)
}

func (s *NestedLabelSet) insert(r *Registry, parts []string) {
	if len(parts) == 0 {
		return
	}
	lbl := r.RegisterIndexed(parts[0])

	for i := range s.Entries {
		if s.Entries[i].Label == lbl {
			if len(parts) == 1 {
				// Path already present to this depth; leave as-is
				// (a terminal entry stays terminal, a recursive one
				// keeps its existing children).
				return
			}
			if s.Entries[i].Child == nil {
				s.Entries[i].Child = &NestedLabelSet{}
			}
			s.Entries[i].Child.insert(r, parts[1:])
			return
		}
	}

	entry := NestedEntry{Label: lbl}
	if len(parts) > 1 {
		entry.Child = &NestedLabelSet{}
		entry.Child.insert(r, parts[1:])
	}
	s.Entries = append(s.Entries, entry)
}

// Count returns the total number of entries across the whole tree.
func (s *NestedLabelSet) Count() int {
	if s == nil {
		return 0
	}
	n := len(s.Entries)
	for _, e := range s.Entries {
		n += e.Child.Count()
	}
	return n
}
