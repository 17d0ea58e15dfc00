/*
Package streaming groups the bounded stream and the components built on it.

  - stream: Bounded, one-time FIFO between one producer and one consumer,
    consumed by polling or through callbacks
  - streamio: io.Reader and io.Writer adapters over byte streams
  - bridge: Redis list sink and pump for moving stream items between
    processes

Basic usage:

	s, _ := stream.New[int](64)
	_ = s.Write(1, 2, 3)
	_ = s.Close()

	items, err := stream.Collect(ctx, s)

A write past capacity keeps the accepted prefix and moves the stream to its
error state. Use WriteAsync, or the streamio Writer, when the producer should
wait for the consumer instead.
*/
package streaming
