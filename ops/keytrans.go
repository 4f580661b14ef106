package ops

import (
	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/kid"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// KeyTrans emits the elapsed time since a key's tracked value last
// changed. Update (no value label) reports time since the prior event;
// UpdateValue reports time since the tracked value last transitioned to
// a different hash.
type KeyTrans struct {
	seed      uint64
	keepFirst bool

	tsLabel       label.Label
	timediffLabel label.Label
}

// NewKeyTrans builds a KeyTrans. seed salts the per-value hash used to
// detect a transition.
func NewKeyTrans(reg *label.Registry, seed uint64) *KeyTrans {
	return &KeyTrans{
		seed:          seed,
		tsLabel:       reg.RegisterIndexed("DATETIME"),
		timediffLabel: reg.RegisterIndexed("TIMEDIFF"),
	}
}

// SetKeepFirst enables -f/-F: keep the timestamp of the first occurrence
// of a repeated value instead of re-arming the transition clock on every
// repeat.
func (k *KeyTrans) SetKeepFirst(b bool) { k.keepFirst = b }

func (k *KeyTrans) lookupTS(rec *tuple.Tuple) (wsdata.Timestamp, bool) {
	ms := rec.Find(k.tsLabel)
	if len(ms) == 0 {
		return wsdata.Timestamp{}, false
	}
	return ms[0].GetTS()
}

func (k *KeyTrans) emitDiff(rec *tuple.Tuple, ts wsdata.Timestamp, slot []byte) error {
	tnew := float64(ts.Sec) + float64(ts.Usec)/1e6
	last := float64(wire.ReadI64(slot, 0)) + float64(wire.ReadI64(slot, 8))/1e6
	diffRec := wsdata.NewDouble(tnew - last)
	diffRec.AttachLabel(k.timediffLabel)
	return rec.AddMember(diffRec)
}

func (k *KeyTrans) storeTS(slot []byte, ts wsdata.Timestamp) {
	wire.PutI64(slot, 0, ts.Sec)
	wire.PutI64(slot, 8, ts.Usec)
}

// KeyTransDescriptor returns the kid.Descriptor for keytrans: a 16-byte
// last-timestamp plus 8-byte value-hash state per key.
func KeyTransDescriptor() *kid.Descriptor {
	return &kid.Descriptor{
		Name:      "keytrans",
		StateSize: 24,
		Update: func(inst any, slot []byte, rec *tuple.Tuple, key *wsdata.Record) bool {
			k := inst.(*KeyTrans)
			ts, ok := k.lookupTS(rec)
			if !ok {
				return false
			}
			if wire.ReadI64(slot, 0) == 0 {
				k.storeTS(slot, ts)
				return true
			}
			if err := k.emitDiff(rec, ts, slot); err != nil {
				return false
			}
			k.storeTS(slot, ts)
			return true
		},
		UpdateValue: func(inst any, slot []byte, rec *tuple.Tuple, key, value *wsdata.Record) bool {
			k := inst.(*KeyTrans)
			data, ok := value.HashRange()
			if !ok {
				return false
			}
			vhash := wire.Hash64(k.seed, data)

			ts, ok := k.lookupTS(rec)
			if !ok {
				return false
			}

			state := wire.ReadU64(slot, 16)
			hasLast := wire.ReadI64(slot, 0) != 0

			switch {
			case state == 0 && !hasLast:
				wire.PutU64(slot, 16, vhash)
				k.storeTS(slot, ts)
			case state != vhash:
				if err := k.emitDiff(rec, ts, slot); err != nil {
					return false
				}
				wire.PutU64(slot, 16, vhash)
				k.storeTS(slot, ts)
			case !k.keepFirst:
				k.storeTS(slot, ts)
			}
			return true
		},
	}
}
