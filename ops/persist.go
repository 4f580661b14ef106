package ops

import (
	"math/bits"
	"time"

	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/kid"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// Persist tracks, per key, a sliding bitmap of which of the last BinCount
// time bins saw at least one event. Once at least MinBits of the
// window's bins are set it emits the bitmap as an ASCII '0'/'1' string
// plus the hit count.
type Persist struct {
	BinCount   uint8
	MinBits    uint8
	BinMillis  int64
	binMask    uint64
	outoforder uint64

	tsLabel           label.Label
	persistLabel      label.Label
	persistCountLabel label.Label
}

// NewPersist builds a Persist with bincnt reference bins (capped at 64,
// default 16) of binMillis duration each (default 1000ms), reporting
// once at least minBits bins are set (default 4).
func NewPersist(reg *label.Registry, bincnt, minBits uint8, binMillis int64) *Persist {
	if bincnt == 0 {
		bincnt = 16
	}
	if bincnt > 64 {
		bincnt = 64
	}
	if minBits == 0 {
		minBits = 4
	}
	if binMillis == 0 {
		binMillis = 1000
	}
	var mask uint64
	for i := uint8(0); i < bincnt; i++ {
		mask |= 1 << i
	}
	return &Persist{
		BinCount:          bincnt,
		MinBits:           minBits,
		BinMillis:         binMillis,
		binMask:           mask,
		tsLabel:           reg.RegisterIndexed("DATETIME"),
		persistLabel:      reg.RegisterIndexed("PERSIST"),
		persistCountLabel: reg.RegisterIndexed("PERSIST_COUNT"),
	}
}

func (p *Persist) nowMillis(rec *tuple.Tuple) int64 {
	if ms := rec.Find(p.tsLabel); len(ms) > 0 {
		if ts, ok := ms[0].GetTS(); ok {
			return ts.Sec*1000 + ts.Usec/1000
		}
	}
	now := time.Now()
	return now.Unix()*1000 + int64(now.Nanosecond())/1e6
}

// PersistDescriptor returns the kid.Descriptor for persist: an 8-byte
// current-bin index plus 8-byte bitmap per key.
func PersistDescriptor() *kid.Descriptor {
	return &kid.Descriptor{
		Name:      "persist",
		StateSize: 16,
		Update: func(inst any, slot []byte, rec *tuple.Tuple, key *wsdata.Record) bool {
			p := inst.(*Persist)
			current := p.nowMillis(rec) / p.BinMillis
			if current == 0 {
				return false
			}

			last := wire.ReadI64(slot, 0)
			if last == 0 {
				wire.PutI64(slot, 0, current)
				wire.PutU64(slot, 8, 1)
				return false
			}
			if last > current {
				p.outoforder++
				return false
			}
			bindiff := current - last
			if bindiff == 0 {
				return false
			}
			wire.PutI64(slot, 0, current)

			var binbits uint64
			if bindiff >= int64(p.BinCount) {
				binbits = 1
			} else {
				binbits = ((wire.ReadU64(slot, 8) << uint(bindiff)) + 1) & p.binMask
			}
			wire.PutU64(slot, 8, binbits)

			hits := bits.OnesCount64(binbits)
			if uint8(hits) < p.MinBits {
				return false
			}

			cntRec := wsdata.NewUint64(uint64(hits))
			cntRec.AttachLabel(p.persistCountLabel)
			if err := rec.AddMember(cntRec); err != nil {
				return false
			}

			buf := make([]byte, p.BinCount)
			for i := uint8(0); i < p.BinCount; i++ {
				buf[i] = '0' + byte((binbits>>i)&1)
			}
			strRec := wsdata.NewString(string(buf))
			strRec.AttachLabel(p.persistLabel)
			if err := rec.AddMember(strRec); err != nil {
				return false
			}
			return true
		},
	}
}
