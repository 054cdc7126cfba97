package correlation

import (
	"log/slog"
	"time"

	"github.com/alextanhongpin/correlation/sync/expire"
)

var _ expire.Map[string, ReplyHandler[any]] = (*TimeoutMap[any])(nil)

// TimeoutMap holds the reply handlers of pending requests. Handlers whose
// timeout elapses are removed and told to time out.
type TimeoutMap[T any] struct {
	store  *expire.Store[string, ReplyHandler[T]]
	logger *slog.Logger
}

func NewTimeoutMap[T any](opts Options) (*TimeoutMap[T], error) {
	m := &TimeoutMap[T]{
		logger: opts.logger(),
	}

	store, err := expire.New(expire.Options[string, ReplyHandler[T]]{
		Interval:  opts.Interval,
		OnEvict:   m.onEviction,
		Name:      opts.Name,
		Clock:     opts.Clock,
		Logger:    m.logger,
		Recorder:  opts.Recorder,
		Scheduler: opts.Scheduler,
	})
	if err != nil {
		return nil, err
	}

	m.store = store

	return m, nil
}

func (m *TimeoutMap[T]) onEviction(id string, h ReplyHandler[T]) bool {
	h.OnTimeout(id)

	m.logger.Debug("evicted correlationID",
		slog.String("correlation_id", id),
	)

	return true
}

// Put registers h under id. A timeout <= 0 means no timeout.
func (m *TimeoutMap[T]) Put(id string, h ReplyHandler[T], timeout time.Duration) {
	m.store.Put(id, h, timeout)

	m.logger.Debug("added correlationID",
		slog.String("correlation_id", id),
		slog.Duration("timeout", timeout),
	)
}

func (m *TimeoutMap[T]) Get(id string) (ReplyHandler[T], bool) {
	return m.store.Get(id)
}

func (m *TimeoutMap[T]) Remove(id string) (ReplyHandler[T], bool) {
	h, ok := m.store.Remove(id)

	m.logger.Debug("removed correlationID",
		slog.String("correlation_id", id),
		slog.Bool("found", ok),
	)

	return h, ok
}

func (m *TimeoutMap[T]) Deadline(id string) (time.Time, bool) {
	return m.store.Deadline(id)
}

func (m *TimeoutMap[T]) Len() int {
	return m.store.Len()
}

// Sweep times out every expired handler immediately.
func (m *TimeoutMap[T]) Sweep() int {
	return m.store.Sweep()
}

func (m *TimeoutMap[T]) Close() {
	m.store.Close()
}
