package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobboard/job-board-api/internal/core/ports"
	"github.com/jobboard/job-board-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	removeTimeout  = 5 * time.Second
)

// ErrStopped is returned by Stop when called twice.
var ErrStopped = errors.New("cleaner already stopped")

// Cleaner removes resume files that no applicant owns any more. Paths are
// routed to a fixed set of workers by hashing the path, so the same file is
// never removed twice concurrently. Failures are logged and counted, never
// reported back to the caller.
type Cleaner struct {
	workers []chan string
	store   ports.ResumeStore
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewCleaner creates a Cleaner with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCleaner(numWorkers int, store ports.ResumeStore, log zerolog.Logger) *Cleaner {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	c := &Cleaner{
		workers: make([]chan string, numWorkers),
		store:   store,
		log:     log,
	}
	for i := range c.workers {
		c.workers[i] = make(chan string, channelBuffer)
	}
	return c
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled or
// once their queue is drained after Stop.
func (c *Cleaner) Start(ctx context.Context) {
	for i, ch := range c.workers {
		c.wg.Add(1)
		go c.runWorker(ctx, i, ch)
	}
}

// Discard queues path for removal. It never blocks: when the worker queue is
// full or the cleaner is stopped the file is removed on the caller's
// goroutine instead.
func (c *Cleaner) Discard(path string) {
	if path == "" {
		return
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.stopped {
		idx := c.shardIndex(path)
		select {
		case c.workers[idx] <- path:
			metrics.CleanupQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(c.workers[idx])))
			return
		default:
			c.log.Warn().Str("path", path).Int("worker_id", idx).Msg("cleanup queue full, removing inline")
		}
	}
	c.remove(context.Background(), -1, path)
}

// Stop closes the queues and waits for the workers to drain them, or for ctx
// to expire.
func (c *Cleaner) Stop(ctx context.Context) error {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return ErrStopped
	}
	c.stopped = true
	for _, ch := range c.workers {
		close(ch)
	}
	c.mu.Unlock()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a path deterministically to a worker index.
func (c *Cleaner) shardIndex(path string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(path))
	return int(h.Sum32() % uint32(len(c.workers)))
}

func (c *Cleaner) runWorker(ctx context.Context, id int, ch <-chan string) {
	defer c.wg.Done()
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case path, ok := <-ch:
			if !ok {
				return
			}
			metrics.CleanupQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			c.remove(ctx, id, path)
		}
	}
}

func (c *Cleaner) remove(ctx context.Context, worker int, path string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), removeTimeout)
	defer cancel()

	if err := c.store.Remove(ctx, path); err != nil {
		metrics.ResumeCleanupTotal.WithLabelValues("failed").Inc()
		c.log.Warn().Err(err).
			Str("path", path).
			Int("worker_id", worker).
			Msg("resume cleanup failed")
		return
	}
	metrics.ResumeCleanupTotal.WithLabelValues("removed").Inc()
	c.log.Debug().Str("path", path).Int("worker_id", worker).Msg("resume removed")
}

var _ ports.ResumeJanitor = (*Cleaner)(nil)
