package ops

import (
	"sync"
	"time"

	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/kid"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// KeyRate reports a per-key event count once per epoch (a fixed wall-clock
// window), gated by a [min, max] observation count.
type KeyRate struct {
	mu           sync.Mutex
	epoch        uint32
	curBucket    int64
	epochSeconds int64

	MinCount uint64
	MaxCount uint64

	tsLabel    label.Label
	countLabel label.Label
	epochLabel label.Label
	rateLabel  label.Label
}

// NewKeyRate builds a KeyRate with the given epoch (60 seconds when epoch
// is zero or negative) and min-count 3.
func NewKeyRate(reg *label.Registry, epoch time.Duration) *KeyRate {
	if epoch <= 0 {
		epoch = 60 * time.Second
	}
	return &KeyRate{
		epochSeconds: int64(epoch / time.Second),
		MinCount:     3,
		tsLabel:      reg.RegisterIndexed("DATETIME"),
		countLabel:   reg.RegisterIndexed("ACC"),
		epochLabel:   reg.RegisterIndexed("EPOCH_ID"),
		rateLabel:    reg.RegisterIndexed("RATE"),
	}
}

func (k *KeyRate) currentEpoch(rec *tuple.Tuple) uint32 {
	tsec := time.Now().Unix()
	if ms := rec.Find(k.tsLabel); len(ms) > 0 {
		if ts, ok := ms[0].GetTS(); ok {
			tsec = ts.Sec
		}
	}
	bucket := tsec / k.epochSeconds

	k.mu.Lock()
	defer k.mu.Unlock()
	if bucket != k.curBucket {
		k.curBucket = bucket
		k.epoch++
	}
	return k.epoch
}

func (k *KeyRate) report(rec *tuple.Tuple, epoch uint32, cnt uint64) bool {
	if cnt < k.MinCount || (k.MaxCount != 0 && cnt > k.MaxCount) {
		return false
	}
	cntRec := wsdata.NewUint64(cnt)
	cntRec.AttachLabel(k.countLabel)
	if err := rec.AddMember(cntRec); err != nil {
		return false
	}
	epochRec := wsdata.NewUint64(uint64(epoch))
	epochRec.AttachLabel(k.epochLabel)
	if err := rec.AddMember(epochRec); err != nil {
		return false
	}
	rateRec := wsdata.NewDouble(float64(cnt) / float64(k.epochSeconds))
	rateRec.AttachLabel(k.rateLabel)
	if err := rec.AddMember(rateRec); err != nil {
		return false
	}
	return true
}

// KeyRateDescriptor returns the kid.Descriptor for keyrate: a 4-byte epoch
// plus 8-byte count per key.
func KeyRateDescriptor() *kid.Descriptor {
	return &kid.Descriptor{
		Name:      "keyrate",
		StateSize: 12,
		Update: func(inst any, slot []byte, rec *tuple.Tuple, key *wsdata.Record) bool {
			k := inst.(*KeyRate)
			epoch := k.currentEpoch(rec)
			stateEpoch := readU32(slot, 0)
			cnt := wire.ReadU64(slot, 4)

			if stateEpoch == epoch {
				cnt++
				wire.PutU64(slot, 4, cnt)
				return false
			}
			rtn := k.report(rec, stateEpoch, cnt)
			putU32(slot, 0, epoch)
			wire.PutU64(slot, 4, 1)
			return rtn
		},
		UpdateValue: func(inst any, slot []byte, rec *tuple.Tuple, key, value *wsdata.Record) bool {
			k := inst.(*KeyRate)
			v, ok := value.GetUint()
			if !ok {
				return false
			}
			epoch := k.currentEpoch(rec)
			stateEpoch := readU32(slot, 0)
			cnt := wire.ReadU64(slot, 4)

			if stateEpoch == epoch {
				cnt += v
				wire.PutU64(slot, 4, cnt)
				return false
			}
			rtn := k.report(rec, stateEpoch, cnt)
			putU32(slot, 0, epoch)
			wire.PutU64(slot, 4, v)
			return rtn
		},
	}
}

func putU32(b []byte, off int, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
	b[off+3] = byte(v >> 24)
}

func readU32(b []byte, off int) uint32 {
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16 | uint32(b[off+3])<<24
}
