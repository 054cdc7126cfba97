package expire

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/alextanhongpin/correlation/sync/timer"
	"github.com/alextanhongpin/correlation/types/clock"
)

var _ Map[string, any] = (*Store[string, any])(nil)

type entry[V any] struct {
	value    V
	deadline time.Time
	gen      uint64 // Distinguishes a replaced entry from its predecessor.
}

// Store is the default Map implementation.
type Store[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]*entry[V]
	gen  uint64

	// sweep serializes sweeps.
	sweep sync.Mutex

	name   string
	evict  EvictFunc[K, V]
	clock  clock.Clock
	logger *slog.Logger
	rec    Recorder
	stop   func()
}

// New returns a Store and starts its sweep.
func New[K comparable, V any](opts Options[K, V]) (*Store[K, V], error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("%w: interval=%s", err, opts.Interval)
	}

	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}

	s := &Store[K, V]{
		data:   make(map[K]*entry[V]),
		name:   opts.Name,
		evict:  opts.OnEvict,
		clock:  opts.Clock,
		logger: opts.Logger,
		rec:    opts.Recorder,
	}

	sweep := func() {
		s.Sweep()
	}

	if opts.Scheduler != nil {
		cancel, err := opts.Scheduler.Every(opts.Interval, sweep)
		if err != nil {
			return nil, err
		}

		s.stop = cancel
	} else {
		s.stop = timer.SetInterval(sweep, opts.Interval)
	}

	return s, nil
}

func (s *Store[K, V]) Put(k K, v V, timeout time.Duration) {
	deadline := clock.Deadline(s.clock.Now(), timeout)

	s.mu.Lock()
	s.gen++
	s.data[k] = &entry[V]{
		value:    v,
		deadline: deadline,
		gen:      s.gen,
	}
	n := len(s.data)
	s.mu.Unlock()

	s.rec.Put()
	s.rec.Size(n)
}

func (s *Store[K, V]) Get(k K) (V, bool) {
	s.mu.RLock()
	e, ok := s.data[k]
	s.mu.RUnlock()

	if !ok {
		var v V
		return v, false
	}

	return e.value, true
}

// Deadline returns the deadline of k. Entries that never expire return
// clock.Max.
func (s *Store[K, V]) Deadline(k K) (time.Time, bool) {
	s.mu.RLock()
	e, ok := s.data[k]
	s.mu.RUnlock()

	if !ok {
		return time.Time{}, false
	}

	return e.deadline, true
}

func (s *Store[K, V]) Remove(k K) (V, bool) {
	e, n, ok := s.detach(k, 0)
	if !ok {
		var v V
		return v, false
	}

	s.rec.Remove()
	s.rec.Size(n)

	return e.value, true
}

func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	n := len(s.data)
	s.mu.RUnlock()

	return n
}

func (s *Store[K, V]) Keys() []K {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]K, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}

	return keys
}

// Close stops the sweep and waits for a running sweep to finish. It does not
// evict the remaining entries. It is idempotent.
func (s *Store[K, V]) Close() {
	s.stop()
}

// Sweep evicts every entry whose deadline is at or before now and returns the
// number of evicted entries. It is safe to call alongside the background
// sweep.
func (s *Store[K, V]) Sweep() int {
	s.sweep.Lock()
	defer s.sweep.Unlock()

	type candidate struct {
		key K
		gen uint64
	}

	now := s.clock.Now()

	var expired []candidate
	s.mu.RLock()
	for k, e := range s.data {
		if clock.Lte(e.deadline, now) {
			expired = append(expired, candidate{key: k, gen: e.gen})
		}
	}
	s.mu.RUnlock()

	var (
		evicted int
		n       int
	)
	for _, c := range expired {
		e, size, ok := s.detach(c.key, c.gen)
		if !ok {
			// Removed or replaced since the scan.
			continue
		}

		evicted++
		n = size

		s.rec.Evict(now.Sub(e.deadline))
		s.notify(c.key, e.value)
	}

	if evicted > 0 {
		s.rec.Size(n)
		s.logger.Debug("sweep",
			slog.String("map", s.name),
			slog.Int("evicted", evicted),
			slog.Int("size", n),
		)
	}

	return evicted
}

// detach deletes k and returns the remaining size. A non-zero gen only
// matches the entry of that generation.
func (s *Store[K, V]) detach(k K, gen uint64) (*entry[V], int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.data[k]
	if !ok || (gen != 0 && e.gen != gen) {
		return nil, len(s.data), false
	}

	delete(s.data, k)

	return e, len(s.data), true
}

func (s *Store[K, V]) notify(k K, v V) {
	defer func() {
		if r := recover(); r != nil {
			s.rec.HookFailed()
			s.logger.Error("eviction hook failed",
				slog.String("map", s.name),
				slog.Any("key", k),
				slog.Any("panic", r),
			)
		}
	}()

	if !s.evict(k, v) {
		s.logger.Debug("eviction hook declined removal",
			slog.String("map", s.name),
			slog.Any("key", k),
		)
	}
}
