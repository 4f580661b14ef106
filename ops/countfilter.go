package ops

import (
	"math"
	"math/rand/v2"

	"github.com/flowkit/flowkit/kid"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// CountFilter is countfilter's instance state: a Morris-style
// probabilistic counter per key. The more often a key's events pass, the
// less likely the next one is to pass.
type CountFilter struct {
	Power       float64
	CustomPower bool
}

// NewCountFilter builds a CountFilter with the default base-2 exponent.
func NewCountFilter() *CountFilter { return &CountFilter{Power: 2} }

// SetPower overrides the base (-P).
func (c *CountFilter) SetPower(p float64) {
	c.Power = p
	c.CustomPower = true
}

const maxCountFilterValue = 65535

// CountFilterDescriptor returns the kid.Descriptor for countfilter: a
// 2-byte per-key exponent state, incremented probabilistically on pass.
func CountFilterDescriptor() *kid.Descriptor {
	return &kid.Descriptor{
		Name:      "countfilter",
		StateSize: 2,
		Update: func(inst any, slot []byte, rec *tuple.Tuple, key *wsdata.Record) bool {
			c := inst.(*CountFilter)
			value := uint32(slot[0]) | uint32(slot[1])<<8

			if value == 0 {
				putU16(slot, 1)
				return true
			}

			var prob uint32
			if c.CustomPower {
				prob = uint32(math.Pow(c.Power, float64(value)))
			} else {
				prob = uint32(1) << value
			}
			if prob == 0 {
				return false
			}

			if rand.Uint32()%prob == 0 {
				if c.CustomPower {
					if value < maxCountFilterValue {
						value++
					}
				} else if value < 32 {
					value++
				}
				putU16(slot, value)
				return true
			}
			return false
		},
	}
}

func putU16(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}
