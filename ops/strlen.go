package ops

import (
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// Condition gates StrLen's emission on a threshold comparison against the
// scanned buffer's length (-l/-g/-e).
type Condition int

const (
	// ConditionNone always emits (no -l/-g/-e given).
	ConditionNone Condition = iota
	ConditionLT
	ConditionGT
	ConditionEQ
)

// StrLen emits the byte length of every scanned buffer member, optionally
// gated by a threshold condition.
type StrLen struct {
	source    label.Label
	outLabel  label.Label
	condition Condition
	value     int
}

// NewStrLen builds a StrLen scanning members tagged source, emitting
// outLabel (STRLEN by default).
func NewStrLen(reg *label.Registry, source, outLabel label.Label) *StrLen {
	s := &StrLen{source: source, outLabel: outLabel}
	if s.outLabel.Zero() {
		s.outLabel = reg.RegisterIndexed("STRLEN")
	}
	return s
}

// SetCondition configures the -l/-g/-e threshold gate.
func (s *StrLen) SetCondition(cond Condition, value int) {
	s.condition = cond
	s.value = value
}

// Apply scans every member tagged s.source, emitting its length when the
// configured condition (if any) passes.
func (s *StrLen) Apply(rec *tuple.Tuple) error {
	for _, m := range rec.Find(s.source) {
		buf, ok := bufferOf(m)
		if !ok {
			continue
		}
		n := len(buf)
		switch s.condition {
		case ConditionLT:
			if n >= s.value {
				continue
			}
		case ConditionGT:
			if n <= s.value {
				continue
			}
		case ConditionEQ:
			if n != s.value {
				continue
			}
		}
		out := wsdata.NewUint64(uint64(n))
		out.AttachLabel(s.outLabel)
		if err := rec.AddMember(out); err != nil {
			return err
		}
	}
	return nil
}
