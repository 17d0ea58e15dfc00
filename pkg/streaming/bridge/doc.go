// Package bridge connects streams to Redis lists.
//
// A Sink drains a stream into a list with RPUSH, encoding each item with
// msgpack. A Pump pops a list with BLPOP, decodes the items and feeds them to a
// stream through asynchronous writes, so a slow consumer slows the pump down
// instead of overrunning the buffer.
//
// # Event-Driven Sink
//
//	sink, err := bridge.NewSink[Event](bridge.SinkConfig{Redis: rdb, Key: "events"})
//	if err != nil {
//		return err
//	}
//
//	cfg := stream.Config[Event]{MaxBufferSize: 256}
//	sink.Bind(&cfg) // installs OnData, OnClosed and OnError
//	s, err := stream.NewWithConfig(cfg)
//
//	// ... s.Write(...) ...
//	s.Close()
//	<-sink.Done()
//	return sink.Err()
//
// # Scheduled Sink
//
// Start drains on a cron schedule instead, batching everything buffered
// between activations:
//
//	sink, _ := bridge.NewSink[Event](bridge.SinkConfig{
//		Redis:         rdb,
//		Key:           "events",
//		FlushSchedule: "*/5 * * * * *", // every five seconds
//	})
//	sink.Start(s, timer.System())
//
// # Pump
//
//	pump, _ := bridge.NewPump[Event](bridge.PumpConfig{Redis: rdb, Key: "events"})
//	go pump.Run(ctx, s)
//
//	events, err := stream.Collect(ctx, s)
//
// A Sink created with MarkEnd pushes EndOfStream after its stream closes; a Pump
// reading the same list stops there and closes its stream, so the close
// propagates across processes.
package bridge
