package tuple

import "errors"

// ErrMaxLenExceeded is returned by AddMember when a tuple body has already
// grown to MaxLen members and cannot be promoted further.
var ErrMaxLenExceeded = errors.New("tuple: member count would exceed MaxLen")

// ErrBorrowedNoGrow is returned by AddMember when the tuple's current body
// was built over a borrowed member slice (NewFromSlice) and so has no free
// list to grow into.
var ErrBorrowedNoGrow = errors.New("tuple: cannot grow a tuple body borrowed from a parent buffer")
