package wire

import "github.com/zeebo/xxh3"

// Mix64 folds data into acc using a seeded 64-bit mixing hash. The specific
// mixing function is an implementation detail the rest of the engine
// never depends on: any reasonable 64-bit mix satisfies the tuple-hashing
// and state-table-key contracts, so this wraps xxh3 rather than
// hand-rolling one.
func Mix64(acc uint64, data []byte) uint64 {
	h := xxh3.HashSeed(data, acc)
	return h
}

// Hash64 hashes data under a fixed seed, used for state-table keys.
func Hash64(seed uint64, data []byte) uint64 {
	return xxh3.HashSeed(data, seed)
}

// CombineOrdered mixes position into acc before folding data, so that the
// same label set hashed in a different order produces a different result.
func CombineOrdered(acc uint64, position int, data []byte) uint64 {
	var posBuf [8]byte
	PutU64(posBuf[:], 0, uint64(position))
	acc = Mix64(acc, posBuf[:])
	return Mix64(acc, data)
}

// CombineUnordered XORs a per-label partial hash into acc, so member order
// inside the label set doesn't affect the result.
func CombineUnordered(acc uint64, seed uint64, data []byte) uint64 {
	return acc ^ Hash64(seed, data)
}
