// Package label implements the L1 label registry: interning of label
// names, assignment of dense per-process index ids used for O(1)
// inverted-index lookups in tuple bodies, and parsing of dotted label
// paths ("A.B.C") into the nested label-set trees nested search walks.
//
// Index ids are monotonically increasing for the lifetime of a Registry
// and must be assigned before any tuple body that depends on the current
// IndexLen() is allocated; see tuple's allocBody for the staleness check this
// implies on cached free-list bodies.
package label
