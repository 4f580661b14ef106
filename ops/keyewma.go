package ops

import (
	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/kid"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// keyEWMAStateSize is the per-value-position slot size: a 1-byte "has
// prior" flag plus two float64s (running average and variance).
const keyEWMAStateSize = 17

// KeyEWMA tracks a per-(key, value-position) exponentially weighted
// moving average and variance.
type KeyEWMA struct {
	reg           *label.Registry
	alpha         float64
	oneMinusAlpha float64

	ewmaLabels []label.Label
	varLabels  []label.Label
}

// NewKeyEWMA builds a KeyEWMA with weight alpha (0.05 if alpha is outside
// (0, 1)).
func NewKeyEWMA(reg *label.Registry, alpha float64) *KeyEWMA {
	if alpha <= 0 || alpha >= 1 {
		alpha = 0.05
	}
	return &KeyEWMA{reg: reg, alpha: alpha, oneMinusAlpha: 1 - alpha}
}

// KeyEWMADescriptor returns the kid.Descriptor for keyewma, sized to track
// valueCount value positions per key.
func KeyEWMADescriptor(valueCount int) *kid.Descriptor {
	return &kid.Descriptor{
		Name:      "keyewma",
		StateSize: keyEWMAStateSize * valueCount,
		InitMValue: func(inst any, labels []label.Label) error {
			k := inst.(*KeyEWMA)
			for _, l := range labels {
				k.ewmaLabels = append(k.ewmaLabels, k.reg.RegisterIndexed(l.Name+"_EWMA"))
				k.varLabels = append(k.varLabels, k.reg.RegisterIndexed(l.Name+"_EWMA_VARIANCE"))
			}
			return nil
		},
		UpdateValueAt: func(inst any, slot []byte, rec *tuple.Tuple, key, value *wsdata.Record, index int) bool {
			k := inst.(*KeyEWMA)
			v, ok := value.GetDouble()
			if !ok {
				return false
			}

			base := index * keyEWMAStateSize
			var ewma, variance float64
			if slot[base] == 0 {
				slot[base] = 1
				ewma = v
			} else {
				priorAvg := wire.ReadF64(slot, base+1)
				priorVar := wire.ReadF64(slot, base+9)
				ewma = k.alpha*v + k.oneMinusAlpha*priorAvg
				diff := v - priorAvg
				variance = k.oneMinusAlpha * (priorVar + k.alpha*diff*diff)
			}
			wire.PutF64(slot, base+1, ewma)
			wire.PutF64(slot, base+9, variance)

			ewmaRec := wsdata.NewDouble(ewma)
			if index < len(k.ewmaLabels) {
				ewmaRec.AttachLabel(k.ewmaLabels[index])
			}
			if err := rec.AddMember(ewmaRec); err != nil {
				return false
			}

			varRec := wsdata.NewDouble(variance)
			if index < len(k.varLabels) {
				varRec.AttachLabel(k.varLabels[index])
			}
			if err := rec.AddMember(varRec); err != nil {
				return false
			}
			return true
		},
	}
}
