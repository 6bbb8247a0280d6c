package chunk

import "errors"

// ErrTooManyConstants is returned by AddConstant once a chunk's
// constant pool is full (spec.md §3/§4.2: at most 256 constants, since
// the pool is indexed by a single byte).
var ErrTooManyConstants = errors.New("too many constants in one chunk")
