package kid

import (
	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/state"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// recordKey adapts a wsdata.Record to state.KeyHasher by hashing its
// HashRange bytes. Container (tuple) keys aren't supported this way; an
// operator that needs a tuple-shaped key should hash it itself via
// tuple.HashLabelSet and wrap the result in state.Key.
type recordKey struct{ r *wsdata.Record }

func (k recordKey) StateKey() uint64 {
	data, ok := k.r.HashRange()
	if !ok {
		return 0
	}
	return wire.Hash64(0, data)
}

// Harness binds a Descriptor to a state.Table and a key (plus optional
// value) label, and dispatches incoming tuples to the right Descriptor
// callback based on the port they arrived on.
type Harness struct {
	desc        *Descriptor
	inst        any
	table       *state.Table
	reg         *label.Registry
	keyLabel    label.Label
	valueLabels []label.Label
	multiValue  bool

	walker *state.Walker
}

// NewHarness builds a Harness. multiValue selects UpdateValueAt/
// PostUpdateMValue dispatch over the table even when valueLabels has a
// single entry (e.g. keyewma keeps one positional EWMA per configured
// value label and wants the positional-index callback shape).
func NewHarness(
	desc *Descriptor,
	inst any,
	table *state.Table,
	reg *label.Registry,
	keyLabel label.Label,
	valueLabels []label.Label,
	multiValue bool,
) *Harness {
	return &Harness{
		desc:        desc,
		inst:        inst,
		table:       table,
		reg:         reg,
		keyLabel:    keyLabel,
		valueLabels: valueLabels,
		multiValue:  multiValue,
	}
}

// Dispatch routes rec to the callback appropriate for port. It reports
// whether rec itself should be forwarded downstream, plus any standalone
// tuples the Descriptor's Expire callback produced (from EXPIRE, DELETE/
// REMOVE, FLUSH, or a ForceExpire on the default port) — callers that care
// about expiry/flush output must forward emitted themselves; the harness
// has no output edge of its own to send them on.
func (h *Harness) Dispatch(port string, rec *tuple.Tuple) (forward bool, emitted []*tuple.Tuple, err error) {
	switch port {
	case PortExpire:
		return h.dispatchExpire()
	case PortDelete, PortRemove:
		return h.dispatchDelete(rec)
	case PortEnd, PortEndState, PortEndSingle:
		return h.dispatchEnd(rec)
	case PortFlush:
		return h.dispatchFlush()
	default:
		return h.dispatchDefault(rec)
	}
}

func (h *Harness) dispatchDefault(rec *tuple.Tuple) (bool, []*tuple.Tuple, error) {
	forwardAny := false
	var emitted []*tuple.Tuple

	for _, k := range rec.Find(h.keyLabel) {
		slot := h.table.FindAttach(recordKey{k})

		if h.desc.ForceExpire != nil && h.desc.ForceExpire(h.inst, slot.Data, rec, k) {
			if h.desc.Expire != nil {
				out := tuple.New(h.reg, tuple.Small)
				if err := h.desc.Expire(h.inst, slot.Data, out); err != nil {
					slot.Unlock()
					return forwardAny, emitted, err
				}
				emitted = append(emitted, out)
			}
			zero(slot.Data)
		}

		switch {
		case len(h.valueLabels) > 0 && h.multiValue && h.desc.UpdateValueAt != nil:
			idx := 0
			for _, vl := range h.valueLabels {
				for _, v := range rec.Find(vl) {
					if h.desc.UpdateValueAt(h.inst, slot.Data, rec, k, v, idx) {
						forwardAny = true
					}
					idx++
				}
			}
			if h.desc.PostUpdateMValue != nil && h.desc.PostUpdateMValue(h.inst, slot.Data, rec) {
				forwardAny = true
			}
		case len(h.valueLabels) > 0 && h.desc.UpdateValue != nil:
			for _, vl := range h.valueLabels {
				for _, v := range rec.Find(vl) {
					if h.desc.UpdateValue(h.inst, slot.Data, rec, k, v) {
						forwardAny = true
					}
				}
			}
		case h.desc.Update != nil:
			if h.desc.Update(h.inst, slot.Data, rec, k) {
				forwardAny = true
			}
		}

		slot.Unlock()
	}

	return forwardAny, emitted, nil
}

func (h *Harness) dispatchExpire() (bool, []*tuple.Tuple, error) {
	if h.walker == nil {
		h.walker = h.table.Walker()
	}
	_, slot, _ := h.walker.Next()
	if slot == nil {
		return false, nil, nil
	}
	defer slot.Unlock()

	if h.desc.Expire != nil {
		out := tuple.New(h.reg, tuple.Small)
		if err := h.desc.Expire(h.inst, slot.Data, out); err != nil {
			return false, nil, err
		}
		return false, []*tuple.Tuple{out}, nil
	}
	return false, nil, nil
}

func (h *Harness) dispatchDelete(rec *tuple.Tuple) (bool, []*tuple.Tuple, error) {
	var emitted []*tuple.Tuple
	for _, k := range rec.Find(h.keyLabel) {
		kh := recordKey{k}
		if h.desc.Expire != nil {
			if slot, ok := h.table.Find(kh); ok {
				out := tuple.New(h.reg, tuple.Small)
				err := h.desc.Expire(h.inst, slot.Data, out)
				slot.Unlock()
				if err != nil {
					return false, emitted, err
				}
				emitted = append(emitted, out)
			}
		}
		h.table.Delete(kh)
	}
	return true, emitted, nil
}

func (h *Harness) dispatchEnd(rec *tuple.Tuple) (bool, []*tuple.Tuple, error) {
	for _, k := range rec.Find(h.keyLabel) {
		slot, ok := h.table.Find(recordKey{k})
		if !ok {
			continue
		}
		if h.desc.Flush != nil {
			if err := h.desc.Flush(h.inst, slot.Data, rec); err != nil {
				slot.Unlock()
				return false, nil, err
			}
		}
		slot.Unlock()
	}
	return true, nil, nil
}

func (h *Harness) dispatchFlush() (bool, []*tuple.Tuple, error) {
	var emitted []*tuple.Tuple
	var ferr error
	h.table.ScourAndFlush(func(s *state.Slot) {
		if h.desc.Expire == nil || ferr != nil {
			return
		}
		out := tuple.New(h.reg, tuple.Small)
		if err := h.desc.Expire(h.inst, s.Data, out); err != nil {
			ferr = err
			return
		}
		emitted = append(emitted, out)
	})
	return false, emitted, ferr
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
