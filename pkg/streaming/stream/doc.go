/*
Package stream provides a bounded, buffered, one-directional stream between a
single producer and a single consumer.

A Stream is used once: it starts Ready, accepts writes until Close is called,
drains, and ends Closed. A fault (buffer overrun, asynchronous write timeout)
ends it in Errored instead. Both end states are final.

	Ready ──Close──▶ RequestForClose ──buffer empty, no pending writes──▶ Closed
	  │                    │
	  └──overrun/timeout───┴──────────────────────────────────────────▶ Errored

Polling Consumers:

	s, err := stream.New[int](16)
	if err != nil {
		return err
	}

	_ = s.Write(1, 2, 3)
	_ = s.Close()

	for !s.IsClosed() {
		v, ok, err := s.Read()
		if err != nil {
			return err
		}
		if ok {
			fmt.Println(v)
		}
	}

An empty Read after Close, with nothing left in flight, is what moves the
stream to Closed. Wait blocks until a Read would make progress.

Event-Driven Consumers:

Setting any of OnData, OnClosed or OnError starts a timer that runs every
PollInterval. Each tick calls OnData while data is buffered and detects the
end of the drain:

	s, err := stream.NewWithConfig(stream.Config[string]{
		MaxBufferSize: 64,
		OnData: func(s *stream.Stream[string]) {
			lines, _ := s.ReadBuffer()
			for _, l := range lines {
				fmt.Println(l)
			}
		},
		OnClosed: func(*stream.Stream[string]) { fmt.Println("done") },
		OnError:  func(s *stream.Stream[string]) { log.Println(s.Err()) },
	})

Callbacks run without the stream's lock held. OnClosed runs once; OnError runs
at most once; all callbacks are released when the stream ends.

Backpressure:

Write never blocks. When the buffer fills mid-call the items already appended
stay buffered, the stream moves to Errored and the error wraps
errors.ErrBufferOverrun. WriteAsync waits for space instead, retrying every
PollInterval:

	done, err := s.WriteAsync(time.Second, 4, 5, 6)
	if err != nil {
		return err // validation or state error, nothing was written
	}
	if err := <-done; err != nil {
		return err // timeout, or the stream failed meanwhile
	}

Pending asynchronous writes keep a closing stream open until they finish.
Their relative order is not guaranteed.

Element Validation:

NewOctets and NewBits install validators restricting integers to [0, 255] and
strings to bit strings. Any Validator can be supplied through Config; every
item is checked before any is buffered, and a rejection leaves the stream
untouched.

Testing:

The Scheduler field accepts any timer.Scheduler, so tests can drive poll
ticks and deadlines deterministically with a fake clock.
*/
package stream
