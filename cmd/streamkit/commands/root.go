// Package commands implements the streamkit CLI.
package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// options is shared by every command of one invocation.
type options struct {
	configPath string
	logLevel   string

	config FileConfig
	log    *logrus.Logger
}

// init prepares logging and loads the configuration file. It runs before
// any subcommand.
func (o *options) init(cmd *cobra.Command) error {
	o.log = logrus.New()
	o.log.SetOutput(cmd.ErrOrStderr())

	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	o.log.SetLevel(level)

	o.config = DefaultFileConfig()
	if o.configPath != "" {
		if err := loadConfig(o.configPath, &o.config); err != nil {
			return err
		}
		o.log.WithField("path", o.configPath).Debug("configuration loaded")
	}
	return nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "streamkit",
		Short: "Bounded streams and text codecs",
		Long: `streamkit moves data through bounded, one-time streams and converts text
between UTF-8, UTF-16 and Base64.

Example configuration file (streamkit.yaml):
  stream:
    max_buffer_size: 4096
    poll_interval: 10ms
  write_timeout: 5s
  metrics_addr: :9090
  redis:
    addr: localhost:6379
    key: streamkit:lines`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(newBase64Cmd())
	root.AddCommand(newUTF16Cmd())
	root.AddCommand(newRelayCmd(opts))
	root.AddCommand(newPushCmd(opts))
	root.AddCommand(newPullCmd(opts))
	return root
}

// Execute runs the CLI until it finishes or is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}
