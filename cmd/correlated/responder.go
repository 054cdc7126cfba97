package main

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/alextanhongpin/correlation/sync/timer"
)

// responder simulates the remote side of a request/reply exchange. Replies
// arrive after a random delay; a fraction is never answered.
type responder struct {
	deliver  func(correlationID, reply string) bool
	dropRate float64
	maxDelay time.Duration
}

func (r *responder) Send(ctx context.Context, correlationID string) error {
	if rand.Float64() < r.dropRate {
		return nil
	}

	var delay time.Duration
	if r.maxDelay > 0 {
		delay = rand.N(r.maxDelay)
	}

	_ = timer.SetTimeout(func() {
		r.deliver(correlationID, "reply:"+correlationID)
	}, delay)

	return nil
}
