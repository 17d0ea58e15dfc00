package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vnykmshr/streamkit/pkg/metrics"
	"github.com/vnykmshr/streamkit/pkg/scheduling/timer"
	"github.com/vnykmshr/streamkit/pkg/streaming/bridge"
	"github.com/vnykmshr/streamkit/pkg/streaming/stream"
)

// listClient is the Redis surface used by push and pull.
type listClient interface {
	bridge.ListPusher
	bridge.ListPopper
	Close() error
}

// dialRedis connects to Redis and checks the connection.
var dialRedis = func(ctx context.Context, cfg RedisConfig) (listClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// redisFlags registers the flags shared by push and pull and returns a
// function applying the changed ones to a configuration.
func redisFlags(flags *pflag.FlagSet) func(*FileConfig) error {
	defaults := DefaultFileConfig()
	addr := flags.String("redis-addr", defaults.Redis.Addr, "Redis server address")
	key := flags.String("key", "", "Redis list key")
	bufferSize := flags.Int("buffer-size", defaults.Stream.MaxBufferSize, "Stream buffer capacity in items")
	metricsAddr := flags.String("metrics-addr", "", "Serve Prometheus metrics on this address")

	return func(cfg *FileConfig) error {
		if flags.Changed("redis-addr") {
			cfg.Redis.Addr = *addr
		}
		if flags.Changed("key") {
			cfg.Redis.Key = *key
		}
		if flags.Changed("buffer-size") {
			cfg.Stream.MaxBufferSize = *bufferSize
		}
		if flags.Changed("metrics-addr") {
			cfg.MetricsAddr = *metricsAddr
		}
		if cfg.Redis.Key == "" {
			return fmt.Errorf("--key or redis.key is required")
		}
		return cfg.Validate()
	}
}

// lineConfig derives a line stream configuration from the byte stream
// settings of cfg.
func lineConfig(cfg FileConfig, log logrus.FieldLogger, m *metrics.Registry) stream.Config[string] {
	return stream.Config[string]{
		MaxBufferSize: cfg.Stream.MaxBufferSize,
		PollInterval:  cfg.Stream.PollInterval,
		Name:          cfg.Stream.Name,
		Logger:        log,
		Metrics:       m,
	}
}

func newPushCmd(opts *options) *cobra.Command {
	var flushSchedule string
	var applyRedis func(*FileConfig) error

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Send stdin lines to a Redis list",
		Long: `Send stdin lines to a Redis list through a bounded stream.

Each line is appended as one msgpack-encoded element. An end-of-stream
marker follows the last line so "streamkit pull" knows when to stop.
Lines are pushed on every poll tick, or on --flush-schedule when given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config
			if cmd.Flags().Changed("flush-schedule") {
				cfg.Redis.FlushSchedule = flushSchedule
			}
			if err := applyRedis(&cfg); err != nil {
				return err
			}
			return push(cmd.Context(), cmd.InOrStdin(), cfg, opts.log)
		},
	}
	cmd.Flags().StringVar(&flushSchedule, "flush-schedule", "", `Cron schedule pacing pushes, e.g. "@every 2s"`)
	applyRedis = redisFlags(cmd.Flags())
	return cmd
}

func newPullCmd(opts *options) *cobra.Command {
	var popTimeout time.Duration
	var applyRedis func(*FileConfig) error

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Print the elements of a Redis list",
		Long: `Print the elements of a Redis list, one per line, until the
end-of-stream marker written by "streamkit push" arrives.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config
			if cmd.Flags().Changed("pop-timeout") {
				cfg.Redis.PopTimeout = popTimeout
			}
			if err := applyRedis(&cfg); err != nil {
				return err
			}
			return pull(cmd.Context(), cmd.OutOrStdout(), cfg, opts.log)
		},
	}
	cmd.Flags().DurationVar(&popTimeout, "pop-timeout", DefaultFileConfig().Redis.PopTimeout, "How long each BLPOP blocks")
	applyRedis = redisFlags(cmd.Flags())
	return cmd
}

// push sends the lines of in to the configured Redis list and waits until
// the sink has pushed the end-of-stream marker.
func push(ctx context.Context, in io.Reader, cfg FileConfig, log logrus.FieldLogger) error {
	client, err := dialRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()

	m, stop, err := startMetrics(cfg.MetricsAddr, log)
	if err != nil {
		return err
	}
	defer stop()

	sink, err := bridge.NewSink[string](bridge.SinkConfig{
		Redis:         client,
		Key:           cfg.Redis.Key,
		FlushSchedule: cfg.Redis.FlushSchedule,
		MarkEnd:       true,
		Logger:        log,
		Metrics:       m,
	})
	if err != nil {
		return err
	}

	scfg := lineConfig(cfg, log, m)
	paced := cfg.Redis.FlushSchedule != ""
	if !paced {
		sink.Bind(&scfg)
	}
	s, err := stream.NewWithConfig(scfg)
	if err != nil {
		return err
	}
	if paced {
		sink.Start(s, timer.System())
	}

	readCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanned := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-readCtx.Done():
				scanned <- readCtx.Err()
				return
			}
		}
		scanned <- sc.Err()
	}()

	if err := stream.Feed(ctx, s, lines, cfg.WriteTimeout); err != nil {
		return err
	}
	if err := <-scanned; err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	select {
	case <-sink.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	log.WithFields(logrus.Fields{"key": cfg.Redis.Key, "pushed": sink.Pushed()}).Info("push finished")
	return sink.Err()
}

// pull writes the elements of the configured Redis list to out, one per
// line, until the end-of-stream marker.
func pull(ctx context.Context, out io.Writer, cfg FileConfig, log logrus.FieldLogger) error {
	client, err := dialRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer client.Close()

	m, stop, err := startMetrics(cfg.MetricsAddr, log)
	if err != nil {
		return err
	}
	defer stop()

	pump, err := bridge.NewPump[string](bridge.PumpConfig{
		Redis:        client,
		Key:          cfg.Redis.Key,
		PopTimeout:   cfg.Redis.PopTimeout,
		WriteTimeout: cfg.WriteTimeout,
		Logger:       log,
		Metrics:      m,
	})
	if err != nil {
		return err
	}
	s, err := stream.NewWithConfig(lineConfig(cfg, log, m))
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pumped := make(chan error, 1)
	go func() { pumped <- pump.Run(runCtx, s) }()

	w := bufio.NewWriter(out)
	err = stream.ForEach(runCtx, s, func(line string) error {
		_, err := fmt.Fprintln(w, line)
		return err
	})
	if ferr := w.Flush(); err == nil {
		err = ferr
	}
	if err != nil {
		cancel()
	}

	if perr := <-pumped; perr != nil {
		return perr
	}
	return err
}
