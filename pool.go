package mempool

import (
	"log/slog"
	"os"
	"sync"
	"unsafe"

	"github.com/bits-and-blooms/bitset"
)

// DefaultAlignment is the alignment used when Allocate is called with
// align <= 0. It matches the machine word size.
const DefaultAlignment = int(unsafe.Sizeof(uintptr(0)))

// Locker is the mutual exclusion primitive guarding a Pool. The default
// implementation wraps sync.Mutex and never fails; WithLocker substitutes a
// different primitive, e.g. a priority-inheriting lock on real-time targets.
//
// A Lock error is treated as fatal: the pool logs it and terminates the
// process, because bitmap consistency cannot be verified past a broken lock.
type Locker interface {
	Lock() error
	Unlock()
}

type mutexLocker struct {
	mu sync.Mutex
}

func (m *mutexLocker) Lock() error {
	m.mu.Lock()
	return nil
}

func (m *mutexLocker) Unlock() {
	m.mu.Unlock()
}

// Pool is a fixed-capacity memory pool carved into equally sized chunks.
// Capacity and granularity are set at construction and never change.
// All operations serialize on a single lock; worst-case latency is bounded
// by one scan over the chunk bitmap.
type Pool struct {
	lk      Locker
	storage []byte
	bitmap  *bitset.BitSet

	capacity   int
	chunkSize  int
	chunkCount int

	logger *slog.Logger
	exit   func(int) // stubbed in tests
	unmap  func() error
}

// NewPool creates a pool holding capacity bytes split into chunks of
// granularity bytes each. The chunk count is ceil(capacity/granularity);
// when capacity is not a multiple of granularity the backing storage is
// rounded up to whole chunks.
func NewPool(capacity, granularity int, opts ...Option) (*Pool, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if granularity <= 0 || granularity > capacity {
		return nil, ErrInvalidGranularity
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.lockerSet && cfg.locker == nil {
		return nil, ErrNilLocker
	}

	chunkCount := (capacity + granularity - 1) / granularity

	var (
		storage []byte
		unmap   func() error
		err     error
	)
	if cfg.mmap {
		storage, unmap, err = mapAnon(chunkCount * granularity)
		if err != nil {
			return nil, err
		}
	} else {
		storage = make([]byte, chunkCount*granularity)
	}

	lk := cfg.locker
	if lk == nil {
		lk = &mutexLocker{}
	}

	return &Pool{
		lk:         lk,
		storage:    storage,
		bitmap:     bitset.New(uint(chunkCount)),
		capacity:   capacity,
		chunkSize:  granularity,
		chunkCount: chunkCount,
		logger:     cfg.logger,
		exit:       os.Exit,
		unmap:      unmap,
	}, nil
}

// Allocate returns a pointer to size bytes aligned to align, or nil when no
// single chunk or contiguous chunk run can satisfy the request. align must
// be a power of two; align <= 0 selects DefaultAlignment. A nil result is a
// normal exhaustion signal, not a fault; retry and fallback policy belong to
// the caller.
//
// Quirk: size == 0 returns the address of chunk 0 without reserving it, so
// the result may alias a later allocation of that chunk. It must not be
// dereferenced.
func (p *Pool) Allocate(size, align int) unsafe.Pointer {
	if align <= 0 {
		align = DefaultAlignment
	}
	if size < 0 || align&(align-1) != 0 {
		return nil
	}
	if size > p.chunkCount*p.chunkSize {
		// Larger than the whole pool; no run can satisfy it. Rejecting
		// here also keeps the run arithmetic below free of overflow.
		return nil
	}

	p.lock()
	defer p.lk.Unlock()
	p.panicIfClosed()

	if size == 0 {
		return unsafe.Pointer(&p.storage[0])
	}

	base := uintptr(unsafe.Pointer(&p.storage[0]))
	for next := uint(0); ; {
		c, ok := p.bitmap.NextClear(next)
		if !ok || int(c) >= p.chunkCount {
			return nil
		}
		idx := int(c)
		chunkOff := idx * p.chunkSize

		// Pad within the candidate chunk until the address is aligned.
		// The whole chunk is padding budget; overshooting it means no
		// aligned address exists inside and the candidate is skipped.
		aligned := alignUp(base+uintptr(chunkOff), uintptr(align))
		pad := int(aligned - base - uintptr(chunkOff))
		if pad >= p.chunkSize {
			next = c + 1
			continue
		}

		remaining := p.chunkSize - pad
		if size <= remaining {
			p.bitmap.Set(c)
			return unsafe.Add(unsafe.Pointer(&p.storage[0]), chunkOff+pad)
		}

		// The request spills past the candidate chunk. The run covers
		// [idx, idx+additional] inclusive; every chunk in it must be free.
		// size > remaining here, so the numerator cannot go negative.
		additional := 1 + (size-remaining-1)/p.chunkSize
		if idx+additional >= p.chunkCount {
			next = c + 1
			continue
		}
		free := true
		for j := idx + 1; j <= idx+additional; j++ {
			if p.bitmap.Test(uint(j)) {
				free = false
				break
			}
		}
		if !free {
			next = c + 1
			continue
		}
		for j := idx; j <= idx+additional; j++ {
			p.bitmap.Set(uint(j))
		}
		return unsafe.Add(unsafe.Pointer(&p.storage[0]), chunkOff+pad)
	}
}

// Deallocate releases the chunks covered by [ptr, ptr+size). ptr and size
// must exactly match a previously returned, still-live allocation from this
// pool; violating that is undefined behavior. A nil ptr or size <= 0 is a
// silent no-op.
func (p *Pool) Deallocate(ptr unsafe.Pointer, size int) {
	if ptr == nil || size <= 0 {
		return
	}
	p.lock()
	defer p.lk.Unlock()
	p.panicIfClosed()

	off := int(uintptr(ptr) - uintptr(unsafe.Pointer(&p.storage[0])))
	first := off / p.chunkSize
	last := (off + size - 1) / p.chunkSize
	for i := first; i <= last; i++ {
		p.bitmap.Clear(uint(i))
	}
}

// Close releases mmap-backed storage and makes the pool unusable. Pointers
// obtained from the pool are invalid afterwards. Safe to call once; later
// pool operations panic.
func (p *Pool) Close() error {
	p.lock()
	defer p.lk.Unlock()
	if p.storage == nil {
		return nil
	}
	p.storage = nil
	p.bitmap = nil
	if p.unmap != nil {
		return p.unmap()
	}
	return nil
}

// Capacity returns the configured capacity in bytes.
func (p *Pool) Capacity() int {
	return p.capacity
}

// ChunkSize returns the size of a single chunk in bytes.
func (p *Pool) ChunkSize() int {
	return p.chunkSize
}

// ChunkCount returns the number of chunks in the pool.
func (p *Pool) ChunkCount() int {
	return p.chunkCount
}

func (p *Pool) lock() {
	if err := p.lk.Lock(); err != nil {
		p.logger.Error("mempool: lock acquisition failed, terminating", "error", err)
		p.exit(1)
	}
}

func (p *Pool) panicIfClosed() {
	if p.storage == nil {
		panic("mempool: use after Close()")
	}
}

// alignUp rounds addr up to the next multiple of align (a power of two).
func alignUp(addr, align uintptr) uintptr {
	mask := align - 1
	return (addr + mask) &^ mask
}
