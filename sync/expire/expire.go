// Package expire implements a concurrent map whose entries carry a deadline.
// A background sweep detaches entries whose deadline has passed and hands
// each one to an eviction hook exactly once.
package expire

import (
	"errors"
	"log/slog"
	"time"

	"github.com/alextanhongpin/correlation/sync/timer"
	"github.com/alextanhongpin/correlation/types/clock"
)

var (
	ErrInvalidInterval = errors.New("expire: poll interval must be positive")
	ErrNilHook         = errors.New("expire: eviction hook is required")
)

// Map is a key/value store where every entry expires after its timeout.
type Map[K comparable, V any] interface {
	// Put inserts or replaces k. A timeout <= 0 never expires.
	Put(k K, v V, timeout time.Duration)
	Get(k K) (V, bool)
	// Remove detaches k. Exactly one of Remove or eviction observes an entry.
	Remove(k K) (V, bool)
	Len() int
	// Close stops the sweep. Entries still present are not evicted.
	Close()
}

// EvictFunc is notified after an expired entry has been detached from the
// map. The result is informational only: the entry is gone either way.
//
// EvictFunc runs on the sweep goroutine. It may call Put or Remove, but must
// not call Close on the map that invoked it.
type EvictFunc[K comparable, V any] func(k K, v V) bool

type Options[K comparable, V any] struct {
	// Interval is the sweep cadence. Required.
	Interval time.Duration

	// OnEvict is called once for every expired entry. Required.
	OnEvict EvictFunc[K, V]

	// Name labels logs and metrics.
	Name string

	Clock    clock.Clock
	Logger   *slog.Logger
	Recorder Recorder

	// Scheduler is an optional shared facility. It must outlive the map.
	// When nil, the map owns its sweep goroutine.
	Scheduler *timer.Scheduler
}

func (o *Options[K, V]) validate() error {
	if o.Interval <= 0 {
		return ErrInvalidInterval
	}

	if o.OnEvict == nil {
		return ErrNilHook
	}

	return nil
}

// Recorder receives map activity, usually to export it as metrics.
type Recorder interface {
	Put()
	Remove()
	// Evict reports how long after its deadline an entry was evicted.
	Evict(lag time.Duration)
	HookFailed()
	Size(n int)
}

type nopRecorder struct{}

func (nopRecorder) Put()                {}
func (nopRecorder) Remove()             {}
func (nopRecorder) Evict(time.Duration) {}
func (nopRecorder) HookFailed()         {}
func (nopRecorder) Size(int)            {}
