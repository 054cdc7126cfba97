package correlation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alextanhongpin/correlation/metrics"
	"github.com/google/uuid"
)

// SendFunc transmits a request tagged with correlationID.
type SendFunc func(ctx context.Context, correlationID string) error

type RequestorOptions struct {
	Options

	// NewID generates correlation IDs. Defaults to random UUIDs.
	NewID func() string
}

// Requestor sends requests and matches the replies delivered back to it by
// correlation ID.
type Requestor[T any] struct {
	replies *TimeoutMap[T]
	newID   func() string
	name    string
	logger  *slog.Logger
}

func NewRequestor[T any](opts RequestorOptions) (*Requestor[T], error) {
	replies, err := NewTimeoutMap[T](opts.Options)
	if err != nil {
		return nil, err
	}

	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}

	return &Requestor[T]{
		replies: replies,
		newID:   opts.NewID,
		name:    opts.Name,
		logger:  opts.logger(),
	}, nil
}

// Request registers a pending reply, calls send and blocks until the reply is
// delivered, the timeout elapses or ctx is done. A timeout <= 0 waits until
// ctx is done.
func (r *Requestor[T]) Request(ctx context.Context, timeout time.Duration, send SendFunc) (T, error) {
	red := metrics.NewRED(r.name, "request")
	defer red.Done()

	var zero T

	id := r.newID()
	w := NewWaiter[T]()

	// Register before sending so a fast reply is never lost.
	r.replies.Put(id, w, timeout)

	if err := send(ctx, id); err != nil {
		r.replies.Remove(id)
		red.Fail()

		return zero, fmt.Errorf("%w: correlationID=%s: %w", ErrSend, id, err)
	}

	reply, err := w.Wait(ctx)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			red.SetStatus(metrics.Timeout)
		} else {
			r.replies.Remove(id)
			red.Fail()
		}

		return zero, err
	}

	return reply, nil
}

// Deliver hands reply to the request registered under correlationID. It
// returns false when the request is unknown, usually because it already timed
// out.
func (r *Requestor[T]) Deliver(correlationID string, reply T) bool {
	h, ok := r.replies.Remove(correlationID)
	if !ok {
		r.logger.Warn("reply for unknown correlationID",
			slog.String("correlation_id", correlationID),
		)

		return false
	}

	h.OnReply(correlationID, reply)

	return true
}

// Pending returns the number of requests awaiting a reply.
func (r *Requestor[T]) Pending() int {
	return r.replies.Len()
}

// Close stops timing out requests. Requests still pending are not resolved;
// their callers return when their context is done.
func (r *Requestor[T]) Close() {
	r.replies.Close()
}
