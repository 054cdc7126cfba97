package clock

import (
	"sync"
	"time"
)

const (
	eq = 0
	gt = 1
	lt = -1
)

// Max is the largest representable time. It is used as the deadline of
// entries that never expire.
var Max = time.Unix(1<<63-62135596801, 999999999)

type Clock interface {
	Now() time.Time
}

type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// Fake is a manually advanced clock for tests.
type Fake struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFake(now time.Time) *Fake {
	return &Fake{now: now}
}

func (f *Fake) Now() time.Time {
	f.mu.RLock()
	now := f.now
	f.mu.RUnlock()

	return now
}

func (f *Fake) Add(d time.Duration) time.Time {
	f.mu.Lock()
	f.now = f.now.Add(d)
	now := f.now
	f.mu.Unlock()

	return now
}

func (f *Fake) Set(t time.Time) {
	f.mu.Lock()
	f.now = t
	f.mu.Unlock()
}

// Deadline returns now+d, saturating at Max. A non-positive d never expires.
func Deadline(now time.Time, d time.Duration) time.Time {
	if d <= 0 {
		return Max
	}

	// Overflow check.
	if Max.Sub(now) <= d {
		return Max
	}

	return now.Add(d)
}

// Compare compares the instants a and b. Unlike comparing UnixNano, it does
// not overflow for times far in the future.
func Compare(a, b time.Time) int {
	return a.Compare(b)
}

func Gte(a, b time.Time) bool {
	c := Compare(a, b)
	return c == gt || c == eq
}

func Gt(a, b time.Time) bool {
	c := Compare(a, b)
	return c == gt
}

func Lte(a, b time.Time) bool {
	c := Compare(a, b)
	return c == lt || c == eq
}

func Lt(a, b time.Time) bool {
	c := Compare(a, b)
	return c == lt
}
