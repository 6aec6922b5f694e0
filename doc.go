// Package mempool implements a fixed-capacity, fixed-granularity memory
// pool allocator with deterministic, bounded-latency behavior.
//
// # Overview
//
// The pool carves a fixed block of storage into equally sized chunks and
// tracks them with a reservation bitmap. Allocation is a first-fit scan for
// a free chunk or contiguous chunk run; deallocation maps the pointer back
// to its chunk range by address arithmetic. There is no general-purpose
// heap behind it, no size classes and no resizing. This is useful for:
//
//   - Real-time systems needing bounded worst-case allocation latency
//   - Resource-constrained environments with a fixed memory budget
//   - Backing containers that must not touch the general heap
//
// # Basic Usage
//
//	pool, err := mempool.NewPool(1<<20, 256) // 1MB capacity, 256B chunks
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	ptr := pool.Allocate(512, 0) // 0 selects DefaultAlignment
//	if ptr == nil {
//		// pool exhausted; retry or fall back, your call
//	}
//	pool.Deallocate(ptr, 512)
//
//	// Typed allocation for containers
//	alloc := mempool.NewAllocator[Node](pool)
//	node, err := alloc.Allocate(1)
//
// # Concurrency
//
// Every pool operation serializes on a single lock held across the whole
// bitmap scan, so worst-case latency is one pass over the chunk count. On
// large pools under contention this can invert priorities; substitute a
// priority-inheriting primitive via WithLocker if your platform provides
// one. A lock that reports an acquisition failure is fatal: the pool logs
// and terminates the process, since bitmap consistency cannot be verified
// past a broken lock.
//
// # Memory Layout
//
// Chunk count is ceil(capacity / granularity). Requests larger than one
// chunk reserve a contiguous run; alignment padding is taken out of the
// first chunk of the run. Deallocation trusts the caller to pass the exact
// pointer and size of a live allocation — there is no double-free or
// bounds checking.
//
// # Important Notes
//
//   - Allocate returns nil on exhaustion; this is normal, not a fault
//   - Allocate(0, ...) returns the address of chunk 0 without reserving it
//     and must not be dereferenced
//   - Allocated memory is not zeroed
//   - WithMmap backs the pool with off-heap memory; Close releases it
package mempool
