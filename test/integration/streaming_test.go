package integration

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/vnykmshr/streamkit/internal/testutil"
	"github.com/vnykmshr/streamkit/pkg/codec/base64"
	"github.com/vnykmshr/streamkit/pkg/codec/utfconv"
	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
	"github.com/vnykmshr/streamkit/pkg/streaming/bridge"
	"github.com/vnykmshr/streamkit/pkg/streaming/stream"
	"github.com/vnykmshr/streamkit/pkg/streaming/streamio"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

// TestUTF16ThroughByteStream pushes UTF-16 text through a byte stream and
// checks the Base64 of what arrives matches the Base64 of the source.
func TestUTF16ThroughByteStream(t *testing.T) {
	text := strings.Repeat("bounded 😀 streams, ünïcödé ", 40)

	r, w, err := streamio.Pipe(stream.Config[byte]{
		MaxBufferSize: 32,
		PollInterval:  time.Millisecond,
		Logger:        quietLogger(),
	})
	testutil.AssertNoError(t, err)

	go func() {
		if _, err := w.WriteUTF16(utfconv.EncodeString(text)); err != nil {
			t.Errorf("WriteUTF16: %v", err)
		}
		_ = w.Close()
	}()

	got, err := io.ReadAll(r)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, base64.Encode(string(got)), base64.Encode(text))

	units, err := utfconv.UTF8ToUTF16(got)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, base64.EncodeUTF16(units), base64.Encode(text))
}

// TestSlowConsumerThrottlesWriter verifies a slow sink holds the writer back
// without losing or reordering bytes.
func TestSlowConsumerThrottlesWriter(t *testing.T) {
	r, w, err := streamio.Pipe(stream.Config[byte]{
		MaxBufferSize: 8,
		PollInterval:  time.Millisecond,
		Logger:        quietLogger(),
	})
	testutil.AssertNoError(t, err)

	sink := testutil.NewMockWriter()
	sink.SetWriteDelay(2 * time.Millisecond)

	var input strings.Builder
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&input, "line %02d\n", i)
	}

	go func() {
		_, _ = io.Copy(w, strings.NewReader(input.String()))
		_ = w.Close()
	}()

	_, err = io.Copy(sink, r)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, sink.String(), input.String())
	testutil.AssertEqual(t, w.Stats().ErrorCount, int64(0))
}

// TestStalledConsumerFailsWriter verifies the write timeout turns a stalled
// consumer into a stream fault on both ends.
func TestStalledConsumerFailsWriter(t *testing.T) {
	s, err := stream.NewBytes(stream.Config[byte]{
		MaxBufferSize: 4,
		PollInterval:  time.Millisecond,
		Logger:        quietLogger(),
	})
	testutil.AssertNoError(t, err)

	w := streamio.NewWriterWithConfig(s, streamio.WriterConfig{WriteTimeout: 20 * time.Millisecond, Logger: quietLogger()})
	_, err = w.Write([]byte("more than four bytes"))
	testutil.AssertErrorIs(t, err, gferrors.ErrTimeout)

	_, err = io.ReadAll(streamio.NewReader(s))
	testutil.AssertErrorIs(t, err, gferrors.ErrTimeout)
	testutil.AssertEqual(t, string(s.Buffered()), "more")
}

// TestEventedStreamFeedsPollingStream chains two streams: the first
// forwards its batches into the second from its OnData callback.
func TestEventedStreamFeedsPollingStream(t *testing.T) {
	downstream, err := stream.NewWithConfig(stream.Config[int]{
		MaxBufferSize: 4,
		PollInterval:  time.Millisecond,
		Logger:        quietLogger(),
	})
	testutil.AssertNoError(t, err)

	upstream, err := stream.NewWithConfig(stream.Config[int]{
		MaxBufferSize: 16,
		PollInterval:  time.Millisecond,
		Logger:        quietLogger(),
		OnData: func(s *stream.Stream[int]) {
			batch, _ := s.ReadBuffer()
			for _, v := range batch {
				done, err := downstream.WriteAsync(time.Second, v*v)
				if err == nil {
					err = <-done
				}
				if err != nil {
					t.Errorf("forward %d: %v", v, err)
				}
			}
		},
		OnClosed: func(*stream.Stream[int]) { _ = downstream.Close() },
	})
	testutil.AssertNoError(t, err)

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	produced := make(chan int)
	go func() {
		defer close(produced)
		for i := 1; i <= 10; i++ {
			produced <- i
		}
	}()
	fed := make(chan error, 1)
	go func() { fed <- stream.Feed(ctx, upstream, produced, time.Second) }()

	got, err := stream.Collect(ctx, downstream)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, got, []int{1, 4, 9, 16, 25, 36, 49, 64, 81, 100})
	testutil.AssertNoError(t, <-fed)
	testutil.AssertEqual(t, upstream.IsClosed(), true)
}

// TestCollectContextCancellation verifies consumers stop on cancellation
// while the stream stays usable.
func TestCollectContextCancellation(t *testing.T) {
	s, err := stream.NewWithConfig(stream.Config[int]{MaxBufferSize: 4, Logger: quietLogger()})
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, s.Write(1))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	got, err := stream.Collect(ctx, s)
	testutil.AssertErrorIs(t, err, context.DeadlineExceeded)
	testutil.AssertSliceEqual(t, got, []int{1})
	testutil.AssertEqual(t, s.State(), stream.Ready)
	testutil.AssertNoError(t, s.Write(2))
}

// TestRedisBridgeRoundTrip relays a stream through a real Redis list.
func TestRedisBridgeRoundTrip(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "localhost:6379",
		DB:          1, // Use a test database
		DialTimeout: 200 * time.Millisecond,
	})
	defer func() { _ = rdb.Close() }()

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	key := fmt.Sprintf("streamkit:test:%d", time.Now().UnixNano())
	defer rdb.Del(context.Background(), key)

	sink, err := bridge.NewSink[string](bridge.SinkConfig{Redis: rdb, Key: key, MarkEnd: true, Logger: quietLogger()})
	testutil.AssertNoError(t, err)

	srcCfg := stream.Config[string]{MaxBufferSize: 8, PollInterval: 5 * time.Millisecond, Logger: quietLogger()}
	sink.Bind(&srcCfg)
	src, err := stream.NewWithConfig(srcCfg)
	testutil.AssertNoError(t, err)

	pump, err := bridge.NewPump[string](bridge.PumpConfig{Redis: rdb, Key: key, PopTimeout: 100 * time.Millisecond, Logger: quietLogger()})
	testutil.AssertNoError(t, err)
	dst, err := stream.NewWithConfig(stream.Config[string]{MaxBufferSize: 2, PollInterval: 5 * time.Millisecond, Logger: quietLogger()})
	testutil.AssertNoError(t, err)

	pumped := make(chan error, 1)
	go func() { pumped <- pump.Run(ctx, dst) }()

	want := []string{"alpha", "beta", "gamma", "delta"}
	testutil.AssertNoError(t, src.Write(want...))
	testutil.AssertNoError(t, src.Close())

	got, err := stream.Collect(ctx, dst)
	testutil.AssertNoError(t, err)
	testutil.AssertSliceEqual(t, got, want)
	testutil.AssertNoError(t, <-pumped)

	<-sink.Done()
	testutil.AssertNoError(t, sink.Err())
	testutil.AssertEqual(t, sink.Pushed(), int64(len(want)))
}
