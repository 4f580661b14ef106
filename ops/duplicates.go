package ops

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/flowkit/flowkit/internal/wire"
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// Duplicates labels nested-search matches that look like repeats of a
// value already seen, using a two-hash Bloom filter as an approximate
// membership table. Each call to Apply mixes a fresh per-event salt into
// every member hash, so a repeat of a value inside one event counts as a
// duplicate, while the same value seen in two distinct events does not.
type Duplicates struct {
	nest *label.NestedLabelSet
	bits *bitset.BitSet
	size uint64
	seq  uint64

	dupeLabel label.Label
	uniqLabel label.Label
}

// NewDuplicates builds a Duplicates backed by a size-bit Bloom filter,
// tagging matches with dupeLabel (and first-sightings with uniqLabel, if
// non-zero).
func NewDuplicates(nest *label.NestedLabelSet, size uint64, dupeLabel, uniqLabel label.Label) *Duplicates {
	return &Duplicates{
		nest:      nest,
		bits:      bitset.New(uint(size)),
		size:      size,
		dupeLabel: dupeLabel,
		uniqLabel: uniqLabel,
	}
}

// Apply scans rec via nested search, labeling each matched member
// DUPLICATE (or uniqLabel) based on Bloom-filter membership.
func (d *Duplicates) Apply(rec *tuple.Tuple) error {
	d.seq++
	var seqBuf [8]byte
	wire.PutU64(seqBuf[:], 0, d.seq)
	ehash := wire.Hash64(0x534fd, seqBuf[:])

	_, err := tuple.NestedSearch(rec, d.nest, func(m *wsdata.Record) error {
		data, ok := m.HashRange()
		if !ok {
			return nil
		}
		h := wire.Hash64(0x1141533479, data) ^ ehash
		i1 := uint(h % d.size)
		i2 := uint((h >> 32) % d.size)

		dup := d.bits.Test(i1) && d.bits.Test(i2)
		d.bits.Set(i1)
		d.bits.Set(i2)

		if dup {
			if !m.HasLabel(d.dupeLabel) {
				m.AttachLabel(d.dupeLabel)
			}
		} else if !d.uniqLabel.Zero() && !m.HasLabel(d.uniqLabel) {
			m.AttachLabel(d.uniqLabel)
		}
		return nil
	})
	return err
}
