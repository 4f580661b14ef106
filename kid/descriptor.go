package kid

import (
	"github.com/flowkit/flowkit/label"
	"github.com/flowkit/flowkit/tuple"
	"github.com/flowkit/flowkit/wsdata"
)

// Descriptor is a tagged union of the callbacks one keyed operator needs
// across its lifecycle. It is deliberately not a single any/interface{}
// vtable: each field has the narrow, fixed signature its call site uses,
// the same "explicit, small signature set" style as tuple.Class/hive's
// alloc.Class, rather than a generic visitor interface every operator
// would need to partially implement.
type Descriptor struct {
	Name string

	// InstanceSize and StateSize are advisory capacity hints an operator
	// constructor can use when sizing its own instance struct and its
	// state.Table slot size; the harness itself doesn't enforce them.
	InstanceSize int
	StateSize    int

	Init func(inst any, opts *Options) error

	// Update runs once per key member when no value labels are configured.
	Update func(inst any, slot []byte, rec *tuple.Tuple, key *wsdata.Record) bool

	// UpdateValue runs once per (key, value) pair across the configured
	// value labels when the UpdateValueAt path is not selected.
	UpdateValue func(inst any, slot []byte, rec *tuple.Tuple, key, value *wsdata.Record) bool

	// UpdateValueAt runs once per (key, value) pair across every
	// configured value label, with a 0-based index spanning all of them,
	// for operators that need positional multi-value state (keyewma,
	// keydiff). PostUpdateMValue, if set, runs once after the whole pass.
	UpdateValueAt    func(inst any, slot []byte, rec *tuple.Tuple, key, value *wsdata.Record, index int) bool
	InitMValue       func(inst any, labels []label.Label) error
	PostUpdateMValue func(inst any, slot []byte, rec *tuple.Tuple) bool

	// ForceExpire, checked before Update/UpdateValue/UpdateValueAt runs,
	// lets an operator expire its own slot mid-update without waiting for
	// the EXPIRE port.
	ForceExpire func(inst any, slot []byte, rec *tuple.Tuple, keyOrValue *wsdata.Record) bool

	// Expire produces an expiry record into out and is called from the
	// EXPIRE port (via the table's Walker), DELETE/REMOVE, and FLUSH.
	Expire func(inst any, slot []byte, out *tuple.Tuple) error

	// ExpireMulti is Expire's multi-output variant, for operators that can
	// emit more than one record per expired slot (unused by the harness's
	// current dispatch; reserved for operators that drive their own loop).
	ExpireMulti func(inst any, slot []byte, out *tuple.Tuple) error

	// Flush runs on END/ENDSTATE/ENDSINGLE: it appends the key's current
	// state onto the triggering record rather than producing a standalone
	// expiry record.
	Flush func(inst any, slot []byte, out *tuple.Tuple) error

	// GradualExpire marks an operator as walker-driven rather than
	// TTL-driven. Nothing in this module reads it; the harness does not
	// branch on it.
	GradualExpire bool

	Destroy func(inst any) error
}
