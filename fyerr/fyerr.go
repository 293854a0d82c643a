// Package fyerr defines the sentinel errors shared across fyvalue's
// packages (spec §6, §7): Invalid/Null/Error-code style results realized
// as errors.Is-compatible sentinels instead of an integer error domain.
package fyerr

import "errors"

var (
	// ErrInvalid means an operation produced value.Invalid: a type
	// mismatch, an out-of-range argument, or a failed force_type check.
	ErrInvalid = errors.New("fyvalue: invalid value")
	// ErrOutOfMemory means the backing allocator could not satisfy a
	// store or alloc request.
	ErrOutOfMemory = errors.New("fyvalue: out of memory")
	// ErrOverflow means a computed size or numeric literal did not fit
	// its target width.
	ErrOverflow = errors.New("fyvalue: overflow")
	// ErrNotFound means a path, key, or index lookup found nothing.
	ErrNotFound = errors.New("fyvalue: not found")
	// ErrUnresolvedAlias means a decoded alias referenced an anchor never
	// seen as complete (spec §4.L "unresolved").
	ErrUnresolvedAlias = errors.New("fyvalue: unresolved alias")
	// ErrRecursiveAlias means a decoded alias referenced an anchor still
	// being collected — a self-referential structure (spec §4.L
	// "recursive").
	ErrRecursiveAlias = errors.New("fyvalue: recursive alias")
	// ErrCacheMismatch means a cache file's magic/version or layout did
	// not match what this build expects (spec §6).
	ErrCacheMismatch = errors.New("fyvalue: cache file mismatch")
	// ErrCanceled means a parallel operation observed its stop flag
	// before completing (spec §4.K "cooperative cancellation").
	ErrCanceled = errors.New("fyvalue: canceled")
)
