package timer_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/alextanhongpin/correlation/sync/timer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetInterval(t *testing.T) {
	var n atomic.Int64
	stop := timer.SetInterval(func() {
		n.Add(1)
	}, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return n.Load() >= 3
	}, time.Second, 5*time.Millisecond)

	stop()
	stop()

	after := n.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, n.Load())
}

func TestSetTimeout(t *testing.T) {
	t.Run("fires", func(t *testing.T) {
		var fired atomic.Bool
		_ = timer.SetTimeout(func() {
			fired.Store(true)
		}, 10*time.Millisecond)

		require.Eventually(t, fired.Load, time.Second, 5*time.Millisecond)
	})

	t.Run("cancelled", func(t *testing.T) {
		var fired atomic.Bool
		stop := timer.SetTimeout(func() {
			fired.Store(true)
		}, 50*time.Millisecond)
		stop()

		time.Sleep(100 * time.Millisecond)
		assert.False(t, fired.Load())
	})
}

func TestScheduler(t *testing.T) {
	t.Run("invalid interval", func(t *testing.T) {
		s := timer.NewScheduler()
		defer s.Close()

		_, err := s.Every(0, func() {})
		assert.ErrorIs(t, err, timer.ErrInvalidInterval)
	})

	t.Run("cancel one task", func(t *testing.T) {
		is := assert.New(t)

		s := timer.NewScheduler()
		defer s.Close()

		var a, b atomic.Int64
		cancelA, err := s.Every(10*time.Millisecond, func() { a.Add(1) })
		require.NoError(t, err)

		_, err = s.Every(10*time.Millisecond, func() { b.Add(1) })
		require.NoError(t, err)

		require.Eventually(t, func() bool {
			return a.Load() >= 2 && b.Load() >= 2
		}, time.Second, 5*time.Millisecond)

		cancelA()
		cancelA()

		stopped := a.Load()
		before := b.Load()
		time.Sleep(50 * time.Millisecond)

		is.Equal(stopped, a.Load())
		is.Greater(b.Load(), before)
	})

	t.Run("close", func(t *testing.T) {
		is := assert.New(t)

		s := timer.NewScheduler()

		var n atomic.Int64
		cancel, err := s.Every(10*time.Millisecond, func() { n.Add(1) })
		require.NoError(t, err)

		s.Close()
		s.Close()

		// Cancelling after close is a no-op.
		cancel()

		after := n.Load()
		time.Sleep(30 * time.Millisecond)
		is.Equal(after, n.Load())

		_, err = s.Every(10*time.Millisecond, func() {})
		is.ErrorIs(err, timer.ErrClosed)
	})
}
