package ops

import (
	"strconv"
	"strings"

	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// CharCnt counts, per scanned buffer member, how many bytes fall in a
// configured dictionary of byte values. With no dictionary configured it
// defaults to counting '='.
type CharCnt struct {
	source label.Label
	cset   [256]bool
	count  int

	outLabel   label.Label
	extraLabel label.Label
}

// NewCharCnt builds a CharCnt scanning members tagged source, emitting its
// count under outLabel (CHARCNT by default), plus extraLabel if non-zero.
func NewCharCnt(reg *label.Registry, source label.Label, outLabel, extraLabel label.Label) *CharCnt {
	c := &CharCnt{source: source, outLabel: outLabel, extraLabel: extraLabel}
	if c.outLabel.Zero() {
		c.outLabel = reg.RegisterIndexed("CHARCNT")
	}
	return c
}

// SetDictionary parses a -X argument: hex byte tokens split on ':', ',',
// ';' or whitespace (e.g. "3d:20" counts '=' and ' ').
func (c *CharCnt) SetDictionary(hexList string) error {
	for _, tok := range strings.FieldsFunc(hexList, func(r rune) bool {
		return r == ':' || r == ',' || r == ';' || r == ' '
	}) {
		if tok == "" {
			continue
		}
		v, err := strconv.ParseUint(tok, 16, 8)
		if err != nil {
			return err
		}
		c.cset[byte(v)] = true
		c.count++
	}
	return nil
}

// Apply scans every member tagged c.source and appends a CHARCNT member
// counting dictionary-byte occurrences within it.
func (c *CharCnt) Apply(rec *tuple.Tuple) error {
	if c.count == 0 {
		c.cset['='] = true
	}
	for _, m := range rec.Find(c.source) {
		buf, ok := bufferOf(m)
		if !ok {
			continue
		}
		var cnt uint64
		for _, b := range buf {
			if c.cset[b] {
				cnt++
			}
		}
		out := wsdata.NewUint64(cnt)
		out.AttachLabel(c.outLabel)
		if !c.extraLabel.Zero() {
			out.AttachLabel(c.extraLabel)
		}
		if err := rec.AddMember(out); err != nil {
			return err
		}
	}
	return nil
}
