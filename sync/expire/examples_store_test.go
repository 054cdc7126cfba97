package expire_test

import (
	"fmt"
	"time"

	"github.com/alextanhongpin/correlation/sync/expire"
	"github.com/alextanhongpin/correlation/types/clock"
)

func ExampleStore() {
	c := clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	s, err := expire.New(expire.Options[string, string]{
		Interval: time.Hour,
		Clock:    c,
		OnEvict: func(k, v string) bool {
			fmt.Println("evicted", k, v)
			return true
		},
	})
	if err != nil {
		panic(err)
	}
	defer s.Close()

	s.Put("A", "handlerA", 50*time.Millisecond)
	s.Put("B", "handlerB", time.Second)
	s.Put("C", "handlerC", 0)

	c.Add(200 * time.Millisecond)
	fmt.Println(s.Sweep())

	v, ok := s.Remove("B")
	fmt.Println(v, ok)

	c.Add(time.Hour)
	fmt.Println(s.Sweep(), s.Len())
	// Output:
	// evicted A handlerA
	// 1
	// handlerB true
	// 0 1
}
