package client

import (
	"context"
	"sync"
	"time"
)

type keyState struct {
	seq  uint64
	refs int
	lock chan struct{}
}

// Scheduler runs row model requests with a cap on simultaneous requests and
// debounce. Requests submitted under the same key run one at a time in
// submission order, a request that was superseded by a newer one for the
// same key before it started is dropped with ErrSuperseded.
type Scheduler struct {
	sem      chan struct{}
	debounce time.Duration

	mu   sync.Mutex
	keys map[string]*keyState
	wg   sync.WaitGroup
}

// NewScheduler creates scheduler, maxConcurrent <= 0 means no limit.
func NewScheduler(maxConcurrent int, debounce time.Duration) *Scheduler {
	s := &Scheduler{
		debounce: debounce,
		keys:     make(map[string]*keyState),
	}
	if maxConcurrent > 0 {
		s.sem = make(chan struct{}, maxConcurrent)
	}
	return s
}

// Submit schedules fn, its result is delivered to the returned channel.
func (s *Scheduler) Submit(ctx context.Context, key string, fn func(context.Context) error) <-chan error {
	done := make(chan error, 1)

	s.mu.Lock()
	ks, ok := s.keys[key]
	if !ok {
		ks = &keyState{lock: make(chan struct{}, 1)}
		s.keys[key] = ks
	}
	ks.seq++
	ks.refs++
	seq := ks.seq
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.release(key, ks)
		done <- s.run(ctx, ks, seq, fn)
	}()
	return done
}

// Wait blocks until all submitted requests are finished.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) superseded(ks *keyState, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ks.seq != seq
}

func (s *Scheduler) release(key string, ks *keyState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ks.refs--
	if ks.refs == 0 {
		delete(s.keys, key)
	}
}

func (s *Scheduler) run(ctx context.Context, ks *keyState, seq uint64, fn func(context.Context) error) error {
	if s.debounce > 0 {
		t := time.NewTimer(s.debounce)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	if s.superseded(ks, seq) {
		return ErrSuperseded
	}

	select {
	case ks.lock <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-ks.lock }()

	// newer request may have overtaken us while waiting for the key
	if s.superseded(ks, seq) {
		return ErrSuperseded
	}

	if s.sem != nil {
		select {
		case s.sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		defer func() { <-s.sem }()
	}
	return fn(ctx)
}
