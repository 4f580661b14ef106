package ops

import (
	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/kid"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// keyDiffStateSize is the per-value-position slot size: a 1-byte "seen
// before" flag plus the prior uint64 value.
const keyDiffStateSize = 9

// KeyDiff emits the absolute difference between a value's current and
// previous observation, per (key, value-position).
type KeyDiff struct {
	reg        *label.Registry
	diffLabels []label.Label
}

// NewKeyDiff builds a KeyDiff.
func NewKeyDiff(reg *label.Registry) *KeyDiff { return &KeyDiff{reg: reg} }

// KeyDiffDescriptor returns the kid.Descriptor for keydiff, sized to track
// valueCount value positions per key.
func KeyDiffDescriptor(valueCount int) *kid.Descriptor {
	return &kid.Descriptor{
		Name:      "keydiff",
		StateSize: keyDiffStateSize * valueCount,
		InitMValue: func(inst any, labels []label.Label) error {
			k := inst.(*KeyDiff)
			for _, l := range labels {
				k.diffLabels = append(k.diffLabels, k.reg.RegisterIndexed(l.Name+"_DIFF"))
			}
			return nil
		},
		UpdateValueAt: func(inst any, slot []byte, rec *tuple.Tuple, key, value *wsdata.Record, index int) bool {
			k := inst.(*KeyDiff)
			v, ok := value.GetUint()
			if !ok {
				return true
			}

			base := index * keyDiffStateSize
			if slot[base] == 0 {
				slot[base] = 1
				wire.PutU64(slot, base+1, v)
				return true
			}

			prior := wire.ReadU64(slot, base+1)
			var diff uint64
			if v >= prior {
				diff = v - prior
			} else {
				diff = prior - v
			}
			wire.PutU64(slot, base+1, v)

			diffRec := wsdata.NewUint64(diff)
			if index < len(k.diffLabels) {
				diffRec.AttachLabel(k.diffLabels[index])
			}
			if err := rec.AddMember(diffRec); err != nil {
				return true
			}
			return true
		},
	}
}
