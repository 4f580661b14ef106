package ops

import (
	"math"

	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/kid"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// periodicBinSize is one reference bin's on-the-wire size: reference (8),
// threshold (8, fixed at bin creation), running sum (8), and observation
// count (4).
const periodicBinSize = 28

// Periodic detects, per key, recurring inter-event deltas that land
// within a log-scaled threshold window of one of a small set of
// reference bins. Bins that don't match any observed delta are recycled
// round-robin rather than kept on a move-to-front LRU list -- a
// simplification that trades exact recency order for a fixed-size state
// slot.
type Periodic struct {
	BinCount           int
	MinimumObservations uint32
	MinimumTdiff       int64
	MaximumTdiff       int64
	ThreshX            float64
	ThreshY            float64
	outOfOrder         uint64

	tsLabel          label.Label
	periodLabel      label.Label
	periodCountLabel label.Label
}

// NewPeriodic builds a Periodic with the default 4 bins, 4 observations
// minimum, 500ms minimum delta, and x=0.7/y=0.25 threshold scaling.
func NewPeriodic(reg *label.Registry, binCount int) *Periodic {
	if binCount <= 0 {
		binCount = 4
	}
	return &Periodic{
		BinCount:            binCount,
		MinimumObservations: 4,
		MinimumTdiff:        500,
		ThreshX:             0.7,
		ThreshY:             0.25,
		tsLabel:             reg.RegisterIndexed("DATETIME"),
		periodLabel:         reg.RegisterIndexed("PERIOD"),
		periodCountLabel:    reg.RegisterIndexed("PERIOD_COUNT"),
	}
}

func (p *Periodic) threshold(deltaMsec int64) int64 {
	td := float64(deltaMsec) * 0.001
	v := 1000 * p.ThreshX * math.Log(p.ThreshY*(td+1.0)+(1.0-p.ThreshY))
	return int64(v)
}

func (p *Periodic) currentMsec(rec *tuple.Tuple) (int64, bool) {
	ms := rec.Find(p.tsLabel)
	if len(ms) == 0 {
		return 0, false
	}
	ts, ok := ms[0].GetTS()
	if !ok {
		return 0, false
	}
	return ts.Sec*1000 + ts.Usec/1000, true
}

// PeriodicDescriptor returns the kid.Descriptor for periodic, sized to
// hold binCount reference bins per key plus an 8-byte last-timestamp and
// 4-byte recycle cursor.
func PeriodicDescriptor(binCount int) *kid.Descriptor {
	if binCount <= 0 {
		binCount = 4
	}
	return &kid.Descriptor{
		Name:      "periodic",
		StateSize: 12 + binCount*periodicBinSize,
		Update: func(inst any, slot []byte, rec *tuple.Tuple, key *wsdata.Record) bool {
			p := inst.(*Periodic)
			current, ok := p.currentMsec(rec)
			if !ok {
				return false
			}

			last := wire.ReadI64(slot, 0)
			if last == 0 {
				wire.PutI64(slot, 0, current)
				return false
			}
			if last > current {
				p.outOfOrder++
				wire.PutI64(slot, 0, current)
				return false
			}
			tdiff := current - last
			wire.PutI64(slot, 0, current)

			if tdiff < p.MinimumTdiff {
				return false
			}
			if p.MaximumTdiff != 0 && tdiff > p.MaximumTdiff {
				return false
			}

			for i := 0; i < binCount; i++ {
				off := 12 + i*periodicBinSize
				cnt := readU32(slot, off+24)
				if cnt == 0 {
					continue
				}
				reference := wire.ReadI64(slot, off)
				thresh := wire.ReadI64(slot, off+8)
				if tdiff+thresh < reference || tdiff > thresh+reference {
					continue
				}

				sum := wire.ReadI64(slot, off+16) + tdiff
				cnt++
				reference = sum / int64(cnt)
				wire.PutI64(slot, off, reference)
				wire.PutI64(slot, off+16, sum)
				putU32(slot, off+24, cnt)

				if cnt < p.MinimumObservations {
					return false
				}
				periodRec := wsdata.NewDouble(float64(reference) / 1000.0)
				periodRec.AttachLabel(p.periodLabel)
				if err := rec.AddMember(periodRec); err != nil {
					return false
				}
				cntRec := wsdata.NewUint64(uint64(cnt))
				cntRec.AttachLabel(p.periodCountLabel)
				if err := rec.AddMember(cntRec); err != nil {
					return false
				}
				return true
			}

			cursor := readU32(slot, 8)
			off := 12 + int(cursor%uint32(binCount))*periodicBinSize
			wire.PutI64(slot, off, tdiff)
			wire.PutI64(slot, off+8, p.threshold(tdiff))
			wire.PutI64(slot, off+16, tdiff)
			putU32(slot, off+24, 1)
			putU32(slot, 8, cursor+1)
			return false
		},
		Expire: func(inst any, slot []byte, out *tuple.Tuple) error {
			for i := 0; i < binCount; i++ {
				off := 12 + i*periodicBinSize
				putU32(slot, off+24, 0)
			}
			return nil
		},
	}
}
