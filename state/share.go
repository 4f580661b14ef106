package state

import "sync"

// shareRegistry binds multiple operators' tables together under one share
// label, mirroring label.Registry's process-lifetime interning but keyed
// on arbitrary caller-chosen strings rather than label names.
var (
	shareMu  sync.Mutex
	shareReg = map[string]*Table{}
)

// Share returns the Table registered under label, creating one with the
// given capacity, slotSize, and onEvict if this is the first call for that
// label. Later callers' capacity/slotSize arguments are ignored once a
// table exists: the first binder wins. The first non-nil onEvict wins too,
// so a later binder's callback is installed only if no earlier binder
// supplied one.
func Share(label string, capacity, slotSize int, onEvict func(*Slot)) *Table {
	shareMu.Lock()
	defer shareMu.Unlock()

	if t, ok := shareReg[label]; ok {
		if onEvict != nil {
			t.mu.Lock()
			if t.onEvict == nil {
				t.onEvict = onEvict
			}
			t.mu.Unlock()
		}
		return t
	}
	t := New(capacity, slotSize, WithOnEvict(onEvict))
	shareReg[label] = t
	return t
}
