// Package tuple implements the tuple container: a growable, label-indexed
// set of member records. tuple.Tuple embeds wsdata.Record, becoming a
// record kind (wsdata.KindTuple) whose payload is a body rather than a
// scalar leaf, a specialisation of record rather than a separate type.
package tuple
