package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/streamkit/internal/testutil"
	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// Example demonstrates polling a stream until it closes.
func Example() {
	s, err := NewWithConfig(Config[int]{MaxBufferSize: 10, Logger: quietLogger()})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	_ = s.Write(1, 2, 3)
	_ = s.Close()

	for !s.IsClosed() {
		v, ok, err := s.Read()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if ok {
			fmt.Println(v)
		}
	}
	fmt.Println("state:", s.State())

	// Output:
	// 1
	// 2
	// 3
	// state: closed
}

// Example_overrun shows that a write past capacity stops the stream while
// keeping what was accepted.
func Example_overrun() {
	s, _ := NewWithConfig(Config[int]{MaxBufferSize: 2, Logger: quietLogger()})

	_ = s.Write(1)
	_ = s.Write(2)
	err := s.Write(3)

	fmt.Println(errors.Is(err, gferrors.ErrBufferOverrun))
	fmt.Println(s.State(), s.Buffered())

	// Output:
	// true
	// errored [1 2]
}

// Example_callbacks drives an event-driven stream with a fake clock.
func Example_callbacks() {
	clock := testutil.NewFakeScheduler(time.Time{})

	s, _ := NewWithConfig(Config[string]{
		MaxBufferSize: 8,
		PollInterval:  20 * time.Millisecond,
		Scheduler:     clock,
		Logger:        quietLogger(),
		OnData: func(s *Stream[string]) {
			words, _ := s.ReadBuffer()
			fmt.Println("data:", words)
		},
		OnClosed: func(*Stream[string]) { fmt.Println("closed") },
	})

	_ = s.Write("hello", "world")
	clock.Advance(20 * time.Millisecond)

	_ = s.Close()
	clock.Advance(20 * time.Millisecond)

	// Output:
	// data: [hello world]
	// closed
}

// Example_writeAsync waits for a consumer to make room.
func Example_writeAsync() {
	clock := testutil.NewFakeScheduler(time.Time{})
	s, _ := NewWithConfig(Config[int]{
		MaxBufferSize: 1,
		Scheduler:     clock,
		Logger:        quietLogger(),
	})

	_ = s.Write(1)
	done, _ := s.WriteAsync(time.Second, 2)

	v, _, _ := s.Read()
	fmt.Println("read", v)
	clock.Advance(20 * time.Millisecond)

	fmt.Println("write result:", <-done)
	fmt.Println("buffered:", s.Buffered())

	// Output:
	// read 1
	// write result: <nil>
	// buffered: [2]
}

// ExampleCollect drains a stream built from a slice.
func ExampleCollect() {
	s, _ := FromSlice([]byte("hi"), Config[byte]{PollInterval: time.Millisecond, Logger: quietLogger()})

	data, err := Collect(context.Background(), s)
	fmt.Println(string(data), err)

	// Output: hi <nil>
}
