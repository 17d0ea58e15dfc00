package streamio

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/vnykmshr/streamkit/internal/testutil"
	gferrors "github.com/vnykmshr/streamkit/pkg/common/errors"
	"github.com/vnykmshr/streamkit/pkg/codec/utfconv"
	"github.com/vnykmshr/streamkit/pkg/metrics"
	"github.com/vnykmshr/streamkit/pkg/streaming/stream"
)

func testConfig(size int) stream.Config[byte] {
	logger, _ := logtest.NewNullLogger()
	return stream.Config[byte]{
		MaxBufferSize: size,
		PollInterval:  time.Millisecond,
		Logger:        logger,
	}
}

func TestPipeCopiesThroughSmallBuffer(t *testing.T) {
	r, w, err := Pipe(testConfig(8))
	testutil.AssertNoError(t, err)

	payload := strings.Repeat("streamkit relays bytes. ", 20)

	errCh := make(chan error, 1)
	go func() {
		_, err := io.Copy(w, strings.NewReader(payload))
		if err == nil {
			err = w.Close()
		}
		errCh <- err
	}()

	sink := testutil.NewMockWriter()
	n, err := io.Copy(sink, r)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, int64(len(payload)))
	testutil.AssertEqual(t, sink.String(), payload)
	testutil.AssertNoError(t, <-errCh)

	stats := w.Stats()
	testutil.AssertEqual(t, stats.BytesWritten, int64(len(payload)))
	testutil.AssertEqual(t, stats.ErrorCount, int64(0))
}

func TestWriterWriteStringAndUTF16(t *testing.T) {
	r, w, err := Pipe(testConfig(64))
	testutil.AssertNoError(t, err)

	_, err = w.WriteString("hi ")
	testutil.AssertNoError(t, err)
	n, err := w.WriteUTF16(utfconv.EncodeString("😀"))
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, 4)
	testutil.AssertNoError(t, w.Close())

	out, err := io.ReadAll(r)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, string(out), "hi 😀")
}

func TestWriterClosed(t *testing.T) {
	r, w, err := Pipe(testConfig(4))
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, w.Close())
	testutil.AssertNoError(t, w.Close())
	testutil.AssertEqual(t, w.IsClosed(), true)

	_, err = w.Write([]byte("x"))
	testutil.AssertErrorIs(t, err, gferrors.ErrClosed)

	_, err = io.ReadAll(r)
	testutil.AssertNoError(t, err)
}

func TestWriterTimeoutFailsStream(t *testing.T) {
	s, err := stream.NewBytes(testConfig(2))
	testutil.AssertNoError(t, err)

	logger, hook := logtest.NewNullLogger()
	onError := testutil.NewCallbackTracker()
	w := NewWriterWithConfig(s, WriterConfig{
		WriteTimeout: 20 * time.Millisecond,
		Logger:       logger,
		OnError:      func(err error) { onError.Mark(err) },
	})

	_, err = w.Write([]byte("abc"))
	testutil.AssertErrorIs(t, err, gferrors.ErrTimeout)
	testutil.AssertEqual(t, s.State(), stream.Errored)
	onError.AssertCallCount(t, 1)
	testutil.AssertEqual(t, w.Stats().ErrorCount, int64(1))
	testutil.AssertEqual(t, hook.LastEntry().Message, "stream write failed")

	_, err = NewReader(s).Read(make([]byte, 4))
	testutil.AssertErrorIs(t, err, gferrors.ErrTimeout)
}

func TestWriteContextCanceled(t *testing.T) {
	s, err := stream.NewBytes(testConfig(1))
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, s.Write('a'))

	logger, _ := logtest.NewNullLogger()
	w := NewWriterWithConfig(s, WriterConfig{WriteTimeout: 50 * time.Millisecond, Logger: logger})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = w.WriteContext(ctx, []byte("b"))
	testutil.AssertErrorIs(t, err, context.Canceled)

	// The abandoned write still resolves through its own deadline.
	testutil.AssertEventually(t, func() bool { return s.HasError() })
}

func TestReaderContext(t *testing.T) {
	s, err := stream.NewBytes(testConfig(4))
	testutil.AssertNoError(t, err)
	r := NewReader(s)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = r.ReadContext(ctx, make([]byte, 1))
	testutil.AssertEqual(t, errors.Is(err, context.DeadlineExceeded), true)

	n, err := r.Read(nil)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, n, 0)
}

func TestReaderPartialReads(t *testing.T) {
	s, err := stream.NewBytes(testConfig(8))
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, s.Write([]byte("abcdef")...))
	testutil.AssertNoError(t, s.Close())

	r := NewReader(s)
	buf := make([]byte, 4)

	n, err := r.Read(buf)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, string(buf[:n]), "abcd")

	n, err = r.Read(buf)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, string(buf[:n]), "ef")

	_, err = r.Read(buf)
	testutil.AssertEqual(t, err, io.EOF)
	testutil.AssertEqual(t, s.IsClosed(), true)
}

func TestPipeMetrics(t *testing.T) {
	reg := metrics.NewRegistry(prometheus.NewRegistry())
	cfg := testConfig(16)
	cfg.Name = "pipe"
	cfg.Metrics = reg

	r, w, err := Pipe(cfg)
	testutil.AssertNoError(t, err)

	_, err = w.WriteString("12345")
	testutil.AssertNoError(t, err)
	testutil.AssertNoError(t, w.Close())
	_, err = io.ReadAll(r)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, promtest.ToFloat64(reg.IOBytes.WithLabelValues("written", "pipe")), 5.0)
	testutil.AssertEqual(t, promtest.ToFloat64(reg.IOBytes.WithLabelValues("read", "pipe")), 5.0)
}
