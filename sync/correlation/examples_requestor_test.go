package correlation_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alextanhongpin/correlation/sync/correlation"
)

func ExampleRequestor() {
	r, err := correlation.NewRequestor[string](correlation.RequestorOptions{
		Options: correlation.Options{
			Interval: 10 * time.Millisecond,
		},
		NewID: func() string {
			return "req-1"
		},
	})
	if err != nil {
		panic(err)
	}
	defer r.Close()

	ctx := context.Background()

	// The reply is delivered by whatever consumes the reply channel.
	reply, err := r.Request(ctx, time.Second, func(ctx context.Context, id string) error {
		go r.Deliver(id, "pong")
		return nil
	})
	fmt.Println(reply, err)

	// Nobody replies.
	_, err = r.Request(ctx, 20*time.Millisecond, func(ctx context.Context, id string) error {
		return nil
	})
	fmt.Println(errors.Is(err, correlation.ErrTimeout))
	// Output:
	// pong <nil>
	// true
}
