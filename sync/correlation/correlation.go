// Package correlation tracks in-flight requests awaiting a reply. Every
// request is registered under a correlation ID with a timeout; a reply that
// never arrives resolves the waiting caller with ErrTimeout.
package correlation

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/alextanhongpin/correlation/sync/expire"
	"github.com/alextanhongpin/correlation/sync/timer"
	"github.com/alextanhongpin/correlation/types/clock"
)

var (
	ErrTimeout = errors.New("correlation: reply timed out")
	ErrSend    = errors.New("correlation: send failed")
)

// ReplyHandler receives the outcome of a single request. Exactly one of
// OnReply or OnTimeout is called.
type ReplyHandler[T any] interface {
	OnReply(correlationID string, reply T)
	OnTimeout(correlationID string)
}

type Options struct {
	// Interval is how often pending requests are checked for timeouts.
	Interval time.Duration
	Name     string

	Clock     clock.Clock
	Logger    *slog.Logger
	Recorder  expire.Recorder
	Scheduler *timer.Scheduler
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return o.Logger
}
