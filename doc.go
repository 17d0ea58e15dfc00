/*
Package streamkit provides bounded streams, text codecs and the plumbing to
connect them.

Streaming (pkg/streaming):
  - stream: Bounded one-time FIFO with polling and callback consumption
  - streamio: io.Reader / io.Writer adapters over byte streams
  - bridge: Redis list sink and pump

Codecs (pkg/codec):
  - utfconv: Lossless UTF-8 / UTF-16 conversion
  - base64: Standard and URL-compliant Base64, JSON byte types

Scheduling (pkg/scheduling):
  - timer: Injectable scheduler with cron schedules

Example usage:

	import (
		"github.com/vnykmshr/streamkit/pkg/codec/base64"
		"github.com/vnykmshr/streamkit/pkg/streaming/stream"
	)

	s, _ := stream.NewBits(stream.DefaultConfig[string]())
	_ = s.Write("1010", "0110")
	_ = s.Close()

	bits, _ := stream.Collect(ctx, s)
	encoded := base64.Encode(strings.Join(bits, ""))
*/
package streamkit
