package label

import (
	"sync"
	"sync/atomic"

	"golang.org/x/text/cases"
)

// numShards picks a power-of-two shard count so shardFor can use a bitmask
// instead of a modulo, and keeps concurrent Register/Search calls from
// serializing on a single lock. Entries here are never evicted: labels are
// interned for the lifetime of the process.
const numShards = 16

// Label is an interned identifier attached to records. IndexID is 0 for an
// unindexed label, or a positive, dense, per-process id that participates
// in every tuple's inverted index.
type Label struct {
	Name    string
	IndexID uint32
}

// Zero reports whether l is the unset Label value.
func (l Label) Zero() bool { return l.Name == "" }

type shard struct {
	mu     sync.RWMutex
	byName map[string]*Label
}

// Registry interns label names and assigns dense index ids. The zero value
// is not usable; construct one with New.
type Registry struct {
	shards      [numShards]*shard
	nextIndexID atomic.Uint32
	foldCase    bool
	folder      cases.Caser
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithCaseFolding enables Unicode-safe case folding (via golang.org/x/text)
// of every name passed to Register, RegisterIndexed, Search and AddPath, so two
// differently-cased spellings of the same path component resolve to the
// same interned Label. Off by default: label names are exact identifiers
// unless a caller's data genuinely arrives with inconsistent casing (e.g.
// merged from multiple upstream adapters).
func WithCaseFolding() Option {
	return func(r *Registry) {
		r.foldCase = true
		r.folder = cases.Fold()
	}
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{}
	for i := range r.shards {
		r.shards[i] = &shard{byName: make(map[string]*Label, 64)}
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Registry) normalize(name string) string {
	if r.foldCase {
		return r.folder.String(name)
	}
	return name
}

func shardFor(name string) int {
	var h uint32 = 2166136261
	for i := 0; i < len(name); i++ {
		h ^= uint32(name[i])
		h *= 16777619
	}
	return int(h & (numShards - 1))
}

// Register idempotently interns name and returns its Label. Freshly
// interned labels are unindexed (IndexID == 0); if name was already
// registered (indexed or not) the existing Label is returned unchanged.
func (r *Registry) Register(name string) Label {
	name = r.normalize(name)
	s := r.shards[shardFor(name)]

	s.mu.RLock()
	if l, ok := s.byName[name]; ok {
		defer s.mu.RUnlock()
		return *l
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.byName[name]; ok {
		return *l
	}
	l := &Label{Name: name}
	s.byName[name] = l
	return *l
}

// RegisterIndexed interns name and ensures it has a dense, positive
// IndexID, assigning the next one if necessary. Re-registering an
// already-indexed name returns the same IndexID.
func (r *Registry) RegisterIndexed(name string) Label {
	name = r.normalize(name)
	s := r.shards[shardFor(name)]

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byName[name]
	if !ok {
		l = &Label{Name: name}
		s.byName[name] = l
	}
	if l.IndexID == 0 {
		l.IndexID = r.nextIndexID.Add(1)
	}
	return *l
}

// Search looks up an already-registered label by name without interning
// it.
func (r *Registry) Search(name string) (Label, bool) {
	name = r.normalize(name)
	s := r.shards[shardFor(name)]
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byName[name]
	if !ok {
		return Label{}, false
	}
	return *l, true
}

// IndexLen returns the current high-water mark of assigned index ids.
// tuple's allocBody compares a cached free-list body's captured index length
// against this value on every allocation and discards stale bodies whose
// inverted index is narrower than the live registry.
func (r *Registry) IndexLen() uint32 {
	return r.nextIndexID.Load()
}
