// Package pool provides a small generic sync.Pool wrapper used to recycle
// leaf records and tuple bodies instead of allocating fresh ones on every
// call: a sync.Pool of structs plus a Reset hook run before reuse.
package pool

import "sync"

// Pool recycles values of type T. New produces a fresh zero value; Reset
// clears a value before it's handed back out.
type Pool[T any] struct {
	p   sync.Pool
	new func() *T
	rst func(*T)
}

// New creates a Pool using newFn to allocate and resetFn to clear reused
// values before Get returns them. resetFn may be nil if T needs no clearing.
func New[T any](newFn func() *T, resetFn func(*T)) *Pool[T] {
	pl := &Pool[T]{new: newFn, rst: resetFn}
	pl.p.New = func() any { return newFn() }
	return pl
}

// Get returns a recycled or freshly allocated *T, reset for reuse.
func (pl *Pool[T]) Get() *T {
	v := pl.p.Get().(*T)
	if pl.rst != nil {
		pl.rst(v)
	}
	return v
}

// Put returns v to the pool for future reuse.
func (pl *Pool[T]) Put(v *T) {
	pl.p.Put(v)
}
