package timer

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrClosed          = errors.New("timer: scheduler closed")
	ErrInvalidInterval = errors.New("timer: interval must be positive")
)

// SetInterval calls fn every duration on a goroutine owned by the caller.
// The returned stop is idempotent and waits for a running fn to return.
func SetInterval(fn func(), duration time.Duration) func() {
	var wg sync.WaitGroup
	wg.Add(1)

	done := make(chan struct{})
	go func() {
		defer wg.Done()

		tick(done, nil, fn, duration)
	}()

	return sync.OnceFunc(func() {
		close(done)
		wg.Wait()
	})
}

func SetTimeout(fn func(), duration time.Duration) func() {
	stop := time.AfterFunc(duration, fn).Stop
	return sync.OnceFunc(func() {
		_ = stop()
	})
}

// Scheduler is a shared facility that runs periodic tasks for many owners.
// It must outlive every owner that registered a task on it; owners release
// only their own task with the cancel func returned by Every.
type Scheduler struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	done   chan struct{}
	closed bool
	end    sync.Once
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		done: make(chan struct{}),
	}
}

// Every registers fn to run every d until either cancel or Close is called.
// cancel waits for a running fn to return, so it must not be called from fn.
func (s *Scheduler) Every(d time.Duration, fn func()) (cancel func(), err error) {
	if d <= 0 {
		return nil, ErrInvalidInterval
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	stop := make(chan struct{})
	exited := make(chan struct{})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(exited)

		tick(s.done, stop, fn, d)
	}()

	return sync.OnceFunc(func() {
		close(stop)
		<-exited
	}), nil
}

// Close stops all tasks and waits for them to return. It is idempotent.
func (s *Scheduler) Close() {
	s.end.Do(func() {
		s.mu.Lock()
		s.closed = true
		close(s.done)
		s.mu.Unlock()

		s.wg.Wait()
	})
}

// tick runs fn on every tick until done or stop is closed. A nil stop blocks
// forever in select.
func tick(done, stop <-chan struct{}, fn func(), d time.Duration) {
	t := time.NewTicker(d)
	defer t.Stop()

	for {
		select {
		case <-done:
			return
		case <-stop:
			return
		case <-t.C:
			fn()
		}
	}
}
