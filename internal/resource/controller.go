package resource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrMemoryLimitExceeded is returned when a reservation would exceed the
// memory limit.
var ErrMemoryLimitExceeded = errors.New("memory limit exceeded")

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for reserved memory.
	// If 0, usage is only tracked.
	MemoryLimitBytes int64

	// MaxConcurrentRuns is the number of runs allowed at once.
	// If 0, defaults to 1.
	MaxConcurrentRuns int64
}

// Controller manages the memory budget and run slots.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64
	memPeak atomic.Int64

	runSem *semaphore.Weighted
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentRuns <= 0 {
		cfg.MaxConcurrentRuns = 1
	}

	c := &Controller{
		cfg:    cfg,
		runSem: semaphore.NewWeighted(cfg.MaxConcurrentRuns),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	return c
}

// AcquireMemory reserves bytes without blocking.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.memSem != nil {
		if bytes > c.cfg.MemoryLimitBytes || !c.memSem.TryAcquire(bytes) {
			return ErrMemoryLimitExceeded
		}
	}

	used := c.memUsed.Add(bytes)
	for {
		peak := c.memPeak.Load()
		if used <= peak || c.memPeak.CompareAndSwap(peak, used) {
			break
		}
	}
	return nil
}

// ReleaseMemory returns bytes reserved by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// Reserve is AcquireMemory paired with an idempotent release function.
func (c *Controller) Reserve(bytes int64) (release func(), err error) {
	if err := c.AcquireMemory(bytes); err != nil {
		return func() {}, err
	}
	var once sync.Once
	return func() { once.Do(func() { c.ReleaseMemory(bytes) }) }, nil
}

// MemoryUsage returns the currently reserved bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// PeakMemoryUsage returns the highest reservation seen.
func (c *Controller) PeakMemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memPeak.Load()
}

// MemoryLimit returns the configured limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}

// AcquireRun blocks until a run slot is free or ctx is done.
func (c *Controller) AcquireRun(ctx context.Context) error {
	if c == nil {
		return ctx.Err()
	}
	return c.runSem.Acquire(ctx, 1)
}

// TryAcquireRun reserves a run slot without blocking.
func (c *Controller) TryAcquireRun() bool {
	if c == nil {
		return true
	}
	return c.runSem.TryAcquire(1)
}

// ReleaseRun frees a run slot.
func (c *Controller) ReleaseRun() {
	if c == nil {
		return
	}
	c.runSem.Release(1)
}
