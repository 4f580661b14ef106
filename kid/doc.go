// Package kid implements the L5 keyed-operator harness: a Descriptor
// (a tagged union of per-lifecycle-event callbacks, deliberately not a
// single opaque interface) bound to a state.Table and a key label, plus
// the Harness that dispatches an incoming tuple to the right callback
// based on which port it arrived on.
package kid
