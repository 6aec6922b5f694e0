package mempool

import "log/slog"

type config struct {
	locker    Locker
	lockerSet bool
	logger    *slog.Logger
	mmap      bool
}

func defaultConfig() config {
	return config{
		logger: slog.Default(),
	}
}

// Option configures a Pool at construction time.
type Option func(*config)

// WithLocker substitutes the mutual exclusion primitive guarding the pool.
// Passing nil makes NewPool fail with ErrNilLocker, since the pool cannot
// operate safely without a lock.
func WithLocker(l Locker) Option {
	return func(c *config) {
		c.locker = l
		c.lockerSet = true
	}
}

// WithLogger sets the logger used on the fatal lock-failure path.
// Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMmap backs the chunk storage with anonymous mmap'd memory outside the
// Go heap. On platforms without mmap support this silently falls back to a
// heap slice. Close unmaps the storage.
func WithMmap() Option {
	return func(c *config) {
		c.mmap = true
	}
}
