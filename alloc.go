package mempool

import "unsafe"

// Allocator is a typed adapter over a Pool for container use. It carries no
// state besides the pool reference, so it is cheap to copy and compare. The
// zero value is unbound; its Allocate fails with ErrNoPool.
//
// Two allocators of the same element type compare equal with == iff they
// reference the same pool; across element types compare Pool() instead.
type Allocator[T any] struct {
	pool *Pool
}

// NewAllocator binds a typed allocator to p.
func NewAllocator[T any](p *Pool) Allocator[T] {
	return Allocator[T]{pool: p}
}

// Allocate reserves storage for n elements of type T and returns a pointer
// to the first. The memory is not zeroed. Returns ErrOutOfMemory when the
// pool cannot satisfy the request.
func (a Allocator[T]) Allocate(n int) (*T, error) {
	if a.pool == nil {
		return nil, ErrNoPool
	}
	var zero T
	ptr := a.pool.Allocate(n*int(unsafe.Sizeof(zero)), int(unsafe.Alignof(zero)))
	if ptr == nil {
		return nil, ErrOutOfMemory
	}
	return (*T)(ptr), nil
}

// AllocateSlice reserves storage for n elements and returns it as a slice.
// The memory is not zeroed.
func (a Allocator[T]) AllocateSlice(n int) ([]T, error) {
	ptr, err := a.Allocate(n)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice(ptr, n), nil
}

// Deallocate releases storage previously obtained from Allocate with the
// same element count. A nil ptr is a no-op.
func (a Allocator[T]) Deallocate(ptr *T, n int) {
	if ptr == nil || a.pool == nil {
		return
	}
	var zero T
	a.pool.Deallocate(unsafe.Pointer(ptr), n*int(unsafe.Sizeof(zero)))
}

// Equal reports whether both allocators draw from the same pool.
func (a Allocator[T]) Equal(other Allocator[T]) bool {
	return a.pool == other.pool
}

// Pool returns the underlying pool, or nil for an unbound allocator.
func (a Allocator[T]) Pool() *Pool {
	return a.pool
}

// Rebind returns an allocator for element type U backed by the same pool.
// Containers use this to allocate internal node types distinct from the
// user-visible element type.
func Rebind[U, T any](a Allocator[T]) Allocator[U] {
	return Allocator[U]{pool: a.pool}
}
