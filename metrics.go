package mempool

// ChunksInUse returns the number of currently reserved chunks.
func (p *Pool) ChunksInUse() int {
	p.lock()
	defer p.lk.Unlock()
	p.panicIfClosed()
	return int(p.bitmap.Count())
}

// BytesReserved returns the number of bytes backing reserved chunks,
// including internal fragmentation from alignment padding and run rounding.
func (p *Pool) BytesReserved() int {
	return p.ChunksInUse() * p.chunkSize
}

// Utilization returns the ratio of reserved chunks to total chunks
// (0.0 to 1.0).
func (p *Pool) Utilization() float64 {
	return float64(p.ChunksInUse()) / float64(p.chunkCount)
}

// Metrics returns a snapshot of pool statistics.
func (p *Pool) Metrics() PoolMetrics {
	inUse := p.ChunksInUse()
	return PoolMetrics{
		Capacity:      p.capacity,
		ChunkSize:     p.chunkSize,
		ChunkCount:    p.chunkCount,
		ChunksInUse:   inUse,
		BytesReserved: inUse * p.chunkSize,
		Utilization:   float64(inUse) / float64(p.chunkCount),
	}
}

// PoolMetrics contains statistical information about a pool.
type PoolMetrics struct {
	Capacity      int     // Configured capacity in bytes
	ChunkSize     int     // Size of a single chunk in bytes
	ChunkCount    int     // Total number of chunks
	ChunksInUse   int     // Currently reserved chunks
	BytesReserved int     // Bytes backing reserved chunks
	Utilization   float64 // Ratio of reserved to total chunks (0.0-1.0)
}
