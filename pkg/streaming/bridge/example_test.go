package bridge_test

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/streamkit/pkg/streaming/bridge"
	"github.com/vnykmshr/streamkit/pkg/streaming/stream"
)

// Example relays a stream through a Redis list. It needs a Redis server on
// localhost:6379 and therefore has no verified output.
func Example() {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		fmt.Println("redis unavailable:", err)
		return
	}

	sink, err := bridge.NewSink[string](bridge.SinkConfig{Redis: client, Key: "example:words", MarkEnd: true})
	if err != nil {
		fmt.Println(err)
		return
	}
	srcCfg := stream.DefaultConfig[string]()
	sink.Bind(&srcCfg)
	src, _ := stream.NewWithConfig(srcCfg)

	pump, _ := bridge.NewPump[string](bridge.PumpConfig{Redis: client, Key: "example:words"})
	dst, _ := stream.New[string](16)
	go func() { _ = pump.Run(ctx, dst) }()

	_ = src.Write("hello", "redis")
	_ = src.Close()

	words, err := stream.Collect(ctx, dst)
	fmt.Println(words, err)
}
