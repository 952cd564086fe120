package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Task is the body of a background job. It must return once ctx is done.
type Task func(ctx context.Context)

// Runner runs at most one background task per key. Tasks get their own
// context derived from the runner, so they outlive the request that started
// them and end on Cancel or Stop.
type Runner struct {
	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
	tasks   map[string]*running
	wg      sync.WaitGroup
	log     zerolog.Logger
}

type running struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates a runner. A zero timeout means tasks may run indefinitely.
func NewRunner(timeout time.Duration, log zerolog.Logger) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
		tasks:   make(map[string]*running),
		log:     log.With().Str("component", "runner").Logger(),
	}
}

// Submit starts task under key. It reports false when a task for key is
// already running or the runner is stopped.
func (r *Runner) Submit(key string, task Task) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ctx.Err() != nil {
		return false
	}
	if _, busy := r.tasks[key]; busy {
		return false
	}

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if r.timeout > 0 {
		ctx, cancel = context.WithTimeout(r.ctx, r.timeout)
	} else {
		ctx, cancel = context.WithCancel(r.ctx)
	}
	entry := &running{cancel: cancel, done: make(chan struct{})}
	r.tasks[key] = entry

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer close(entry.done)
		defer cancel()
		defer r.release(key, entry)

		start := time.Now()
		r.log.Debug().Str("key", key).Msg("task started")
		task(ctx)
		r.log.Debug().Str("key", key).Dur("elapsed", time.Since(start)).Msg("task finished")
	}()
	return true
}

// Cancel stops the task for key, if any, without waiting for it
func (r *Runner) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.tasks[key]
	if ok {
		entry.cancel()
	}
	return ok
}

// Running reports whether a task for key is in flight
func (r *Runner) Running(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.tasks[key]
	return ok
}

// Wait blocks until the task for key finishes or ctx is done
func (r *Runner) Wait(ctx context.Context, key string) error {
	r.mu.Lock()
	entry, ok := r.tasks[key]
	r.mu.Unlock()
	if !ok {
		return nil
	}
	select {
	case <-entry.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop cancels every task and waits for them to return. Later Submits are refused.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.cancel()
	n := len(r.tasks)
	r.mu.Unlock()

	if n > 0 {
		r.log.Info().Int("tasks", n).Msg("stopping background tasks")
	}
	r.wg.Wait()
}

func (r *Runner) release(key string, entry *running) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tasks[key] == entry {
		delete(r.tasks, key)
	}
}
