package tuple

// DeepCopy builds a fresh tuple with the same labels and members as t.
// Leaf members are reattached (refcount bump only, no payload copy); nested
// tuple members recurse into their own DeepCopy. Members present in
// exclude are skipped entirely. exclude may be nil.
func DeepCopy(t *Tuple, exclude *ExcludeSet) *Tuple {
	nt := New(t.reg, Small)
	nt.Labels = append(nt.Labels, t.Labels...)

	for _, m := range t.Members() {
		if exclude.contains(m) {
			continue
		}
		if child, ok := AsTuple(m); ok {
			cc := DeepCopy(child, exclude)
			_ = nt.AddMember(&cc.Record)
			continue
		}
		_ = nt.AddMember(m)
	}
	return nt
}
