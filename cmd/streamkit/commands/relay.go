package commands

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vnykmshr/streamkit/pkg/streaming/stream"
	"github.com/vnykmshr/streamkit/pkg/streaming/streamio"
)

func newRelayCmd(opts *options) *cobra.Command {
	var (
		bufferSize   int
		pollInterval time.Duration
		writeTimeout time.Duration
		metricsAddr  string
		name         string
	)

	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Copy stdin to stdout through a bounded byte stream",
		Long: `Copy stdin to stdout through a bounded byte stream.

The writer waits up to --write-timeout for buffer space; a reader that
falls further behind fails the stream and the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config
			flags := cmd.Flags()
			if flags.Changed("buffer-size") {
				cfg.Stream.MaxBufferSize = bufferSize
			}
			if flags.Changed("poll-interval") {
				cfg.Stream.PollInterval = pollInterval
			}
			if flags.Changed("write-timeout") {
				cfg.WriteTimeout = writeTimeout
			}
			if flags.Changed("metrics-addr") {
				cfg.MetricsAddr = metricsAddr
			}
			if flags.Changed("name") {
				cfg.Stream.Name = name
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return relay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cfg, opts.log)
		},
	}

	defaults := DefaultFileConfig()
	cmd.Flags().IntVar(&bufferSize, "buffer-size", defaults.Stream.MaxBufferSize, "Stream buffer capacity in bytes")
	cmd.Flags().DurationVar(&pollInterval, "poll-interval", defaults.Stream.PollInterval, "Stream poll interval")
	cmd.Flags().DurationVar(&writeTimeout, "write-timeout", defaults.WriteTimeout, "Longest wait for buffer space (0 waits forever)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().StringVar(&name, "name", "", "Stream name for logs and metrics (default random)")
	return cmd
}

// relay copies in to out through a byte stream until in is exhausted and
// the stream drains.
func relay(ctx context.Context, in io.Reader, out io.Writer, cfg FileConfig, log logrus.FieldLogger) error {
	m, stop, err := startMetrics(cfg.MetricsAddr, log)
	if err != nil {
		return err
	}
	defer stop()

	scfg := cfg.Stream
	scfg.Logger = log
	scfg.Metrics = m
	s, err := stream.NewBytes(scfg)
	if err != nil {
		return err
	}

	w := streamio.NewWriterWithConfig(s, streamio.WriterConfig{
		WriteTimeout: cfg.WriteTimeout,
		Logger:       log,
		Metrics:      m,
	})
	r := streamio.NewReader(s).WithMetrics(m)

	copied := make(chan error, 1)
	go func() {
		_, err := io.Copy(w, in)
		if cerr := w.Close(); err == nil {
			err = cerr
		}
		copied <- err
	}()

	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, rerr := r.ReadContext(ctx, buf)
		if n > 0 {
			if _, err := out.Write(buf[:n]); err != nil {
				return err
			}
			total += int64(n)
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return rerr
		}
	}

	if err := <-copied; err != nil {
		return err
	}

	stats := w.Stats()
	log.WithFields(logrus.Fields{
		"stream": s.Name(),
		"bytes":  total,
		"writes": stats.WriteCount,
	}).Debug("relay finished")
	return nil
}
