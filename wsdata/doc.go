// Package wsdata implements the record primitives: a reference-counted,
// poolable record carrying one typed leaf value (unsigned/signed integer,
// double, timestamp, string, or binary buffer), each exposing a hash-range
// callback and a set of best-effort numeric coercions. tuple.Tuple embeds
// Record to become a container-shaped record kind built as a
// specialisation of the same base type.
package wsdata
