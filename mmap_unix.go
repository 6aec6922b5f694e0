//go:build unix

package mempool

import (
	"errors"

	"golang.org/x/sys/unix"
)

// mapAnon reserves size bytes of anonymous read-write memory outside the Go
// heap and returns it together with its unmap function.
func mapAnon(size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	unmap := func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, unmap, nil
}
