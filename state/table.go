package state

import (
	"sync"

	"github.com/hashicorp/golang-lru/v2"
)

// KeyHasher is anything that can name itself as a 64-bit state-table key,
// typically a small wrapper around internal/wire.Hash64 applied to a
// record's HashRange.
type KeyHasher interface {
	StateKey() uint64
}

// Key adapts a raw uint64 to KeyHasher, for callers that have already
// hashed their key.
type Key uint64

// StateKey implements KeyHasher.
func (k Key) StateKey() uint64 { return uint64(k) }

// Slot is a fixed-size byte buffer owned by a Table, guarded by its own
// lock so FindAttach/Find can hand back an already-locked slot.
type Slot struct {
	mu   sync.Mutex
	Data []byte
	key  uint64
}

// Lock acquires the slot's own lock.
func (s *Slot) Lock() { s.mu.Lock() }

// Unlock releases the slot's own lock.
func (s *Slot) Unlock() { s.mu.Unlock() }

// Key returns the state-table key this slot was created under.
func (s *Slot) Key() uint64 { return s.key }

// Option configures a Table at construction time.
type Option func(*Table)

// WithOnEvict installs the callback invoked just before a slot is dropped,
// whether by LRU capacity pressure or an explicit Delete.
func WithOnEvict(fn func(*Slot)) Option {
	return func(t *Table) { t.onEvict = fn }
}

// Table is a fixed-capacity, LRU-evicting map from a hashed key to a
// fixed-size Slot.
type Table struct {
	mu       sync.Mutex
	cache    *lru.Cache[uint64, *Slot]
	slotSize int
	onEvict  func(*Slot)
}

// New creates a Table holding at most capacity entries, each backed by a
// slotSize-byte buffer.
func New(capacity, slotSize int, opts ...Option) *Table {
	t := &Table{slotSize: slotSize}
	for _, o := range opts {
		o(t)
	}

	cache, err := lru.NewWithEvict[uint64, *Slot](capacity, func(_ uint64, slot *Slot) {
		if t.onEvict != nil {
			slot.Lock()
			t.onEvict(slot)
			slot.Unlock()
		}
	})
	if err != nil {
		// Only returned for capacity <= 0, a programming error: Table's
		// capacity is a static configuration value, never user input.
		panic("state: " + err.Error())
	}
	t.cache = cache
	return t
}

// FindAttach returns the slot for key, creating a zeroed one on first
// touch. The returned slot is locked; callers must Unlock it.
func (t *Table) FindAttach(key KeyHasher) *Slot {
	k := key.StateKey()

	t.mu.Lock()
	slot, ok := t.cache.Get(k)
	if !ok {
		slot = &Slot{key: k, Data: make([]byte, t.slotSize)}
		t.cache.Add(k, slot)
	}
	t.mu.Unlock()

	slot.Lock()
	return slot
}

// Find returns the slot for key without creating one. The returned slot is
// locked; callers must Unlock it.
func (t *Table) Find(key KeyHasher) (*Slot, bool) {
	t.mu.Lock()
	slot, ok := t.cache.Get(key.StateKey())
	t.mu.Unlock()
	if !ok {
		return nil, false
	}
	slot.Lock()
	return slot, true
}

// Delete removes key's slot, running the table's on-evict callback first.
func (t *Table) Delete(key KeyHasher) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cache.Remove(key.StateKey())
}

// Scour visits every live slot, each locked for the duration of cb.
func (t *Table) Scour(cb func(*Slot)) {
	t.mu.Lock()
	keys := t.cache.Keys()
	t.mu.Unlock()

	for _, k := range keys {
		t.mu.Lock()
		slot, ok := t.cache.Peek(k)
		t.mu.Unlock()
		if !ok {
			continue
		}
		slot.Lock()
		cb(slot)
		slot.Unlock()
	}
}

// ScourAndFlush visits every live slot like Scour, then empties the table
// (running the on-evict callback for each entry via Purge).
func (t *Table) ScourAndFlush(cb func(*Slot)) {
	t.Scour(cb)
	t.mu.Lock()
	t.cache.Purge()
	t.mu.Unlock()
}

// Len returns the current number of live slots.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cache.Len()
}

// Walker returns a cooperative, gradual-expiration walker over t.
func (t *Table) Walker() *Walker {
	return &Walker{t: t}
}
