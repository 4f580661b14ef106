package ops

import (
	"sync/atomic"

	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/kid"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// KeyAddInitial reports a key's running sum exactly once, the moment its
// observation count first reaches a configured limit. Observations past
// the limit are ignored rather than continuing to accumulate.
type KeyAddInitial struct {
	Limit uint64
	keys  atomic.Uint64

	countLabel label.Label
	valueLabel label.Label
}

// NewKeyAddInitial builds a KeyAddInitial reporting at limit observations
// (16 if limit is 0).
func NewKeyAddInitial(reg *label.Registry, limit uint64) *KeyAddInitial {
	if limit == 0 {
		limit = 16
	}
	return &KeyAddInitial{
		Limit:      limit,
		countLabel: reg.RegisterIndexed("COUNT"),
		valueLabel: reg.RegisterIndexed("ACC"),
	}
}

// Keys returns the number of distinct keys seen so far.
func (k *KeyAddInitial) Keys() uint64 { return k.keys.Load() }

// KeyAddInitialDescriptor returns the kid.Descriptor for keyadd_initial.
func KeyAddInitialDescriptor() *kid.Descriptor {
	return &kid.Descriptor{
		Name:      "keyadd_initial",
		StateSize: 16,
		UpdateValue: func(inst any, slot []byte, rec *tuple.Tuple, key, value *wsdata.Record) bool {
			k := inst.(*KeyAddInitial)
			cnt := wire.ReadU64(slot, 0)
			if cnt == 0 {
				k.keys.Add(1)
			}
			if cnt >= k.Limit {
				return false
			}

			v, ok := value.GetUint()
			if !ok {
				return false
			}

			cnt++
			acc := wire.ReadU64(slot, 8) + v
			wire.PutU64(slot, 0, cnt)
			wire.PutU64(slot, 8, acc)

			if cnt != k.Limit {
				return false
			}

			cntRec := wsdata.NewUint64(cnt)
			cntRec.AttachLabel(k.countLabel)
			if err := rec.AddMember(cntRec); err != nil {
				return false
			}
			accRec := wsdata.NewUint64(acc)
			accRec.AttachLabel(k.valueLabel)
			if err := rec.AddMember(accRec); err != nil {
				return false
			}
			return true
		},
	}
}
