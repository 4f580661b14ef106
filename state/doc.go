// Package state implements the keyed state table: a fixed-capacity,
// LRU-evicting map from a hashed key to a fixed-size byte slot, with
// cooperative gradual expiration via Walker and cross-operator slot
// sharing via Share. Eviction is delegated to hashicorp/golang-lru/v2,
// whose on-evict callback is the concrete seat for an operator's
// on_evict hook.
package state
