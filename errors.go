package mempool

import "errors"

// Predefined errors returned by pool construction and the typed adapter.
var (
	ErrInvalidCapacity    = errors.New("mempool: capacity must be positive")
	ErrInvalidGranularity = errors.New("mempool: granularity must be positive and not exceed capacity")
	ErrNilLocker          = errors.New("mempool: locker must not be nil")
	ErrNoPool             = errors.New("mempool: allocator not bound to a pool")
	ErrOutOfMemory        = errors.New("mempool: out of memory")
)
