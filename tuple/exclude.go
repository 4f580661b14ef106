package tuple

import (
	"unsafe"

	"github.com/flowkit/flowkit/wsdata"
)

// ExcludeSet names specific member records to skip during DeepCopy, used by
// ops.RemoveNest to drop the members matched by its nested label search.
type ExcludeSet struct {
	ptrs map[uintptr]struct{}
}

// NewExcludeSet returns an empty ExcludeSet.
func NewExcludeSet() *ExcludeSet {
	return &ExcludeSet{ptrs: make(map[uintptr]struct{})}
}

// Exclude marks r to be skipped by any DeepCopy call using this set.
func (s *ExcludeSet) Exclude(r *wsdata.Record) {
	s.ptrs[ptrOf(r)] = struct{}{}
}

func (s *ExcludeSet) contains(r *wsdata.Record) bool {
	if s == nil {
		return false
	}
	_, ok := s.ptrs[ptrOf(r)]
	return ok
}

func ptrOf(r *wsdata.Record) uintptr { return uintptr(unsafe.Pointer(r)) }
