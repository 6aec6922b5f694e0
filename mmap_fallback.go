//go:build !unix

package mempool

// mapAnon falls back to a heap slice where anonymous mmap is unavailable.
func mapAnon(size int) ([]byte, func() error, error) {
	return make([]byte, size), nil, nil
}
