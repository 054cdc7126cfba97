package correlation

import (
	"context"
	"fmt"
	"sync"
)

var _ ReplyHandler[any] = (*Waiter[any])(nil)

// Waiter is a ReplyHandler that lets a caller block until the reply, the
// timeout, or an explicit rejection. Only the first outcome is kept.
type Waiter[T any] struct {
	once  sync.Once
	done  chan struct{}
	reply T
	err   error
}

func NewWaiter[T any]() *Waiter[T] {
	return &Waiter[T]{
		done: make(chan struct{}),
	}
}

func (w *Waiter[T]) OnReply(_ string, reply T) {
	w.resolve(reply, nil)
}

func (w *Waiter[T]) OnTimeout(correlationID string) {
	var zero T
	w.resolve(zero, fmt.Errorf("%w: correlationID=%s", ErrTimeout, correlationID))
}

func (w *Waiter[T]) Reject(err error) {
	var zero T
	w.resolve(zero, err)
}

// Done is closed once the waiter is resolved.
func (w *Waiter[T]) Done() <-chan struct{} {
	return w.done
}

func (w *Waiter[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-w.done:
		return w.reply, w.err
	case <-ctx.Done():
		var zero T
		return zero, context.Cause(ctx)
	}
}

func (w *Waiter[T]) resolve(reply T, err error) {
	w.once.Do(func() {
		w.reply = reply
		w.err = err
		close(w.done)
	})
}
