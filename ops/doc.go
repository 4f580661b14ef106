// Package ops is the operator catalogue: concrete kid.Descriptor (and,
// for a few operators whose state isn't expressible as a fixed-size byte
// slot, hand-rolled keyed structures) implementations of the processing
// kids a flow graph is built from.
package ops

import "github.com/flowkit/flowkit/wsdata"

// bufferOf returns the byte content of a string or binary leaf, the two
// kinds charcnt and strlen scan. Any other kind reports ok=false.
func bufferOf(r *wsdata.Record) ([]byte, bool) {
	if b, ok := r.GetBinary(); ok {
		return b, true
	}
	if s, ok := r.GetString(); ok {
		return []byte(s), true
	}
	return nil, false
}
