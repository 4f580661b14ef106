package ops

import (
	"sync/atomic"

	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/kid"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// KeyAdd accumulates a per-key event count and, for each configured
// value label, a running sum. Counts/sums are emitted from the Expire
// path (EXPIRE/DELETE/REMOVE/FLUSH) rather than on every Update.
type KeyAdd struct {
	totalCount atomic.Uint64

	doPct      bool
	countLabel label.Label
	pctLabel   label.Label
	sumLabel   label.Label
	sumLabels  []label.Label
}

// NewKeyAdd builds a KeyAdd with the default COUNT/PCT/SUM labels.
func NewKeyAdd(reg *label.Registry) *KeyAdd {
	return &KeyAdd{
		countLabel: reg.RegisterIndexed("COUNT"),
		pctLabel:   reg.RegisterIndexed("PCT"),
		sumLabel:   reg.RegisterIndexed("SUM"),
	}
}

// SetPercentage enables the -P percentage-of-total output.
func (k *KeyAdd) SetPercentage(b bool) { k.doPct = b }

// AddValueLabel appends a per-position output label for the i'th -V
// value (-L); positions beyond the configured labels fall back to the
// default SUM label.
func (k *KeyAdd) AddValueLabel(l label.Label) { k.sumLabels = append(k.sumLabels, l) }

func (k *KeyAdd) sumLabelAt(i int) label.Label {
	if i < len(k.sumLabels) && !k.sumLabels[i].Zero() {
		return k.sumLabels[i]
	}
	return k.sumLabel
}

// KeyAddDescriptor returns the kid.Descriptor for keyadd, sized to track
// valueCount value-label sums per key.
func KeyAddDescriptor(valueCount int) *kid.Descriptor {
	return &kid.Descriptor{
		Name:      "keyadd",
		StateSize: 8 + 8*valueCount,
		Update: func(inst any, slot []byte, rec *tuple.Tuple, key *wsdata.Record) bool {
			k := inst.(*KeyAdd)
			k.totalCount.Add(1)
			wire.PutU64(slot, 0, wire.ReadU64(slot, 0)+1)
			return false
		},
		UpdateValueAt: func(inst any, slot []byte, rec *tuple.Tuple, key, value *wsdata.Record, index int) bool {
			v, ok := value.GetUint()
			if !ok {
				return false
			}
			off := 8 + index*8
			wire.PutU64(slot, off, wire.ReadU64(slot, off)+v)
			return false
		},
		PostUpdateMValue: func(inst any, slot []byte, rec *tuple.Tuple) bool {
			k := inst.(*KeyAdd)
			k.totalCount.Add(1)
			wire.PutU64(slot, 0, wire.ReadU64(slot, 0)+1)
			return false
		},
		Expire: func(inst any, slot []byte, out *tuple.Tuple) error {
			k := inst.(*KeyAdd)
			cnt := wire.ReadU64(slot, 0)

			cntRec := wsdata.NewUint64(cnt)
			cntRec.AttachLabel(k.countLabel)
			if err := out.AddMember(cntRec); err != nil {
				return err
			}

			if k.doPct {
				var pct float64
				if total := k.totalCount.Load(); total > 0 {
					pct = float64(cnt) / float64(total)
				}
				pctRec := wsdata.NewDouble(pct)
				pctRec.AttachLabel(k.pctLabel)
				if err := out.AddMember(pctRec); err != nil {
					return err
				}
			}

			for i, off := 0, 8; off+8 <= len(slot); i, off = i+1, off+8 {
				sumRec := wsdata.NewUint64(wire.ReadU64(slot, off))
				sumRec.AttachLabel(k.sumLabelAt(i))
				if err := out.AddMember(sumRec); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
