package ops

import (
	"sync"

	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// groupEventsState buffers the values collected so far for one key.
// Members are pinned with Attach for as long as they're held here;
// ownership transfers to the emitted output tuple (via AddMember's own
// Attach) when the group closes.
type groupEventsState struct {
	keyRec     *wsdata.Record
	commonRec  *wsdata.Record
	commonHash uint64
	hasCommon  bool
	values     []*wsdata.Record
}

// GroupEvents buffers events sharing a key into a single output tuple,
// closing the group (emitting it) when it fills, when a configured
// "common" value changes, or on an explicit flush/expire/end port.
// Unlike state.Table-backed operators, its per-key state holds live
// *wsdata.Record references rather than a fixed byte layout, so it
// keeps its own map instead of going through kid.Harness.
type GroupEvents struct {
	mu    sync.Mutex
	reg   *label.Registry
	state map[uint64]*groupEventsState

	keyNest     *label.NestedLabelSet
	commonNest  *label.NestedLabelSet
	valueNest   *label.NestedLabelSet
	maxCount    int
	outputLabel label.Label
}

// NewGroupEvents builds a GroupEvents keying on keyNest, buffering up to
// maxCount values per key (20 if maxCount <= 0).
func NewGroupEvents(reg *label.Registry, keyNest *label.NestedLabelSet, maxCount int) *GroupEvents {
	if maxCount <= 0 {
		maxCount = 20
	}
	return &GroupEvents{
		reg:      reg,
		state:    make(map[uint64]*groupEventsState),
		keyNest:  keyNest,
		maxCount: maxCount,
	}
}

// SetValueSearch configures which nested-search matches get buffered as
// group values (-V).
func (g *GroupEvents) SetValueSearch(nest *label.NestedLabelSet) { g.valueNest = nest }

// SetCommonSearch configures the "common" value search (-C): a group
// closes and restarts whenever this value's hash changes mid-key.
func (g *GroupEvents) SetCommonSearch(nest *label.NestedLabelSet) { g.commonNest = nest }

// SetOutputLabel tags every emitted group tuple with l (-L).
func (g *GroupEvents) SetOutputLabel(l label.Label) { g.outputLabel = l }

func firstMatch(rec *tuple.Tuple, nest *label.NestedLabelSet) *wsdata.Record {
	if nest == nil {
		return nil
	}
	var found *wsdata.Record
	_, _ = tuple.NestedSearch(rec, nest, func(m *wsdata.Record) error {
		if found == nil {
			found = m
		}
		return nil
	})
	return found
}

func keyHashOf(r *wsdata.Record) (uint64, bool) {
	data, ok := r.HashRange()
	if !ok {
		return 0, false
	}
	return wire.Hash64(0x2f3a91, data), true
}

// Update buffers rec's configured values under its key. It returns a
// non-nil completed tuple when buffering this event closed a group (the
// buffer filled, or the common value changed); the new event's own values
// are buffered into the (possibly fresh) state in either case.
func (g *GroupEvents) Update(rec *tuple.Tuple) (*tuple.Tuple, error) {
	keyRec := firstMatch(rec, g.keyNest)
	if keyRec == nil {
		return nil, nil
	}
	h, ok := keyHashOf(keyRec)
	if !ok {
		return nil, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	st, ok := g.state[h]
	if !ok {
		st = &groupEventsState{}
		keyRec.Attach()
		st.keyRec = keyRec
		g.state[h] = st
	}

	var closed *tuple.Tuple
	if commonRec := firstMatch(rec, g.commonNest); commonRec != nil {
		cdata, _ := commonRec.HashRange()
		chash := wire.Hash64(0x534fd1, cdata)
		if st.hasCommon && st.commonHash != chash {
			closed = g.closeLocked(st)
			st = &groupEventsState{}
			keyRec.Attach()
			st.keyRec = keyRec
			g.state[h] = st
		}
		if !st.hasCommon {
			commonRec.Attach()
			st.commonRec = commonRec
			st.commonHash = chash
			st.hasCommon = true
		}
	}

	if g.valueNest != nil {
		_, _ = tuple.NestedSearch(rec, g.valueNest, func(m *wsdata.Record) error {
			if len(st.values) >= g.maxCount {
				return nil
			}
			m.Attach()
			st.values = append(st.values, m)
			return nil
		})
	}

	if closed == nil && len(st.values) >= g.maxCount {
		closed = g.closeLocked(st)
		fresh := &groupEventsState{}
		keyRec.Attach()
		fresh.keyRec = keyRec
		g.state[h] = fresh
	}

	return closed, nil
}

// closeLocked builds the output tuple for st and removes st's pinned
// references (ownership of each member transfers to the new tuple via its
// own AddMember Attach). Caller must hold g.mu.
func (g *GroupEvents) closeLocked(st *groupEventsState) *tuple.Tuple {
	if len(st.values) == 0 {
		g.releaseLocked(st)
		return nil
	}
	out := tuple.New(g.reg, tuple.Small)
	if !g.outputLabel.Zero() {
		out.AttachLabel(g.outputLabel)
	}
	if st.keyRec != nil {
		_ = out.AddMember(st.keyRec)
	}
	if st.commonRec != nil {
		_ = out.AddMember(st.commonRec)
	}
	for _, v := range st.values {
		_ = out.AddMember(v)
	}
	g.releaseLocked(st)
	return out
}

func (g *GroupEvents) releaseLocked(st *groupEventsState) {
	if st.keyRec != nil {
		st.keyRec.Detach()
	}
	if st.commonRec != nil {
		st.commonRec.Detach()
	}
	for _, v := range st.values {
		v.Detach()
	}
}

// Flush closes every buffered group (FLUSH/EXPIRE port).
func (g *GroupEvents) Flush() []*tuple.Tuple {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]*tuple.Tuple, 0, len(g.state))
	for h, st := range g.state {
		if t := g.closeLocked(st); t != nil {
			out = append(out, t)
		}
		delete(g.state, h)
	}
	return out
}

// CloseKey closes the group for rec's key only (END/ENDSTATE/ENDSINGLE).
func (g *GroupEvents) CloseKey(rec *tuple.Tuple) (*tuple.Tuple, error) {
	keyRec := firstMatch(rec, g.keyNest)
	if keyRec == nil {
		return nil, nil
	}
	h, ok := keyHashOf(keyRec)
	if !ok {
		return nil, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	st, ok := g.state[h]
	if !ok {
		return nil, nil
	}
	delete(g.state, h)
	return g.closeLocked(st), nil
}
