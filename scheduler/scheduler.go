// Package scheduler runs the router's side work: fire-and-forget tasks whose
// failures only reach the log, and continuations deferred until the host's
// interaction queue drains.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vitwit/walletlink/logger"
	"github.com/vitwit/walletlink/metrics"
)

// Task is a unit of background work.
type Task func(ctx context.Context) error

type Scheduler struct {
	log     logger.Logger
	metrics metrics.Recorder
	timeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	queue []func()
}

// New creates a scheduler. A zero timeout leaves tasks unbounded.
func New(log logger.Logger, rec metrics.Recorder, timeout time.Duration) *Scheduler {
	if log == nil {
		log = logger.NoopLogger{}
	}
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		log:     log,
		metrics: rec,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Go starts task in its own goroutine and returns its id. The caller never
// observes the result: errors and panics are logged and counted.
func (s *Scheduler) Go(name string, labels map[string]string, task Task) string {
	id := uuid.NewString()
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		ctx := s.ctx
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		start := time.Now()
		err := run(ctx, task)
		s.metrics.ObserveLatency(name, time.Since(start), labels)

		if err != nil {
			s.metrics.IncCounter(metrics.TaskFailedTotal, labels)
			s.log.Error("background task failed", map[string]any{
				"task":  name,
				"id":    id,
				"error": err,
			})
			return
		}
		s.log.Debug("background task done", map[string]any{"task": name, "id": id})
	}()

	return id
}

func run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return task(ctx)
}

// Defer enqueues fn to run on the next RunPending. Once enqueued it cannot be
// cancelled.
func (s *Scheduler) Defer(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
}

// RunPending drains the interaction queue on the calling goroutine, including
// continuations enqueued while draining. It returns how many ran.
func (s *Scheduler) RunPending() int {
	n := 0
	for {
		s.mu.Lock()
		batch := s.queue
		s.queue = nil
		s.mu.Unlock()

		if len(batch) == 0 {
			return n
		}
		for _, fn := range batch {
			fn()
			n++
		}
	}
}

// Pending returns the number of queued continuations.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Wait blocks until every task started with Go has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Close cancels running tasks and waits for them.
func (s *Scheduler) Close() {
	s.cancel()
	s.wg.Wait()
}
