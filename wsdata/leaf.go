package wsdata

import "github.com/flowkit/flowkit/internal/wire"

// NewUint64 returns a pooled record carrying an unsigned integer leaf.
func NewUint64(v uint64) *Record {
	r := getLeaf(KindUint64)
	r.u64 = v
	return r
}

// NewInt64 returns a pooled record carrying a signed integer leaf.
func NewInt64(v int64) *Record {
	r := getLeaf(KindInt64)
	r.i64 = v
	return r
}

// NewDouble returns a pooled record carrying a floating point leaf.
func NewDouble(v float64) *Record {
	r := getLeaf(KindDouble)
	r.f64 = v
	return r
}

// NewTimestamp returns a pooled record carrying a (sec, usec) timestamp.
func NewTimestamp(ts Timestamp) *Record {
	r := getLeaf(KindTimestamp)
	r.ts = ts
	return r
}

// NewString returns a pooled record carrying a string leaf.
func NewString(s string) *Record {
	r := getLeaf(KindString)
	r.str = s
	return r
}

// NewBinary returns a pooled record carrying a binary buffer leaf. data is
// retained, not copied; callers that need the Record to outlive mutation
// of data should pass a copy.
func NewBinary(data []byte) *Record {
	r := getLeaf(KindBinary)
	r.bin = data
	return r
}

// HashRange returns the byte range whose contents define this leaf's
// identity: strings/binary hash over their byte contents, numeric leaves
// over their raw little-endian bytes, timestamps over the 16-byte (sec,
// usec) pair. ok is false for non-leaf kinds (e.g. KindTuple, whose
// identity is defined by tuple.HashLabelSet instead).
func (r *Record) HashRange() (data []byte, ok bool) {
	var buf [16]byte
	switch r.Kind {
	case KindUint64:
		wire.PutU64(buf[:8], 0, r.u64)
		return append([]byte(nil), buf[:8]...), true
	case KindInt64:
		wire.PutI64(buf[:8], 0, r.i64)
		return append([]byte(nil), buf[:8]...), true
	case KindDouble:
		wire.PutF64(buf[:8], 0, r.f64)
		return append([]byte(nil), buf[:8]...), true
	case KindTimestamp:
		wire.PutI64(buf[:8], 0, r.ts.Sec)
		wire.PutI64(buf[8:16], 0, r.ts.Usec)
		return append([]byte(nil), buf[:16]...), true
	case KindString:
		return []byte(r.str), true
	case KindBinary:
		return r.bin, true
	default:
		return nil, false
	}
}

// GetUint coerces the leaf to an unsigned integer. Coercion never panics;
// callers must check ok.
func (r *Record) GetUint() (v uint64, ok bool) {
	switch r.Kind {
	case KindUint64:
		return r.u64, true
	case KindInt64:
		if r.i64 < 0 {
			return 0, false
		}
		return uint64(r.i64), true
	case KindDouble:
		if r.f64 < 0 {
			return 0, false
		}
		return uint64(r.f64), true
	default:
		return 0, false
	}
}

// GetInt coerces the leaf to a signed integer.
func (r *Record) GetInt() (v int64, ok bool) {
	switch r.Kind {
	case KindUint64:
		return int64(r.u64), true
	case KindInt64:
		return r.i64, true
	case KindDouble:
		return int64(r.f64), true
	default:
		return 0, false
	}
}

// GetDouble coerces the leaf to a float64.
func (r *Record) GetDouble() (v float64, ok bool) {
	switch r.Kind {
	case KindUint64:
		return float64(r.u64), true
	case KindInt64:
		return float64(r.i64), true
	case KindDouble:
		return r.f64, true
	default:
		return 0, false
	}
}

// GetTS coerces the leaf to a Timestamp.
func (r *Record) GetTS() (ts Timestamp, ok bool) {
	if r.Kind == KindTimestamp {
		return r.ts, true
	}
	return Timestamp{}, false
}

// GetString returns the leaf's string value, if it is a string leaf.
func (r *Record) GetString() (string, bool) {
	if r.Kind == KindString {
		return r.str, true
	}
	return "", false
}

// GetBinary returns the leaf's binary value, if it is a binary leaf.
func (r *Record) GetBinary() ([]byte, bool) {
	if r.Kind == KindBinary {
		return r.bin, true
	}
	return nil, false
}
