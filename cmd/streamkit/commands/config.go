package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/vnykmshr/streamkit/pkg/common/validation"
	"github.com/vnykmshr/streamkit/pkg/streaming/bridge"
	"github.com/vnykmshr/streamkit/pkg/streaming/stream"
)

// FileConfig is the layout of the --config file.
type FileConfig struct {
	Stream       stream.Config[byte] `yaml:"stream"`
	WriteTimeout time.Duration       `yaml:"write_timeout"`
	MetricsAddr  string              `yaml:"metrics_addr"`
	Redis        RedisConfig         `yaml:"redis"`
}

// RedisConfig configures the push and pull commands. An empty
// FlushSchedule makes push follow the stream's poll ticks.
type RedisConfig struct {
	Addr          string        `yaml:"addr"`
	Password      string        `yaml:"password"`
	DB            int           `yaml:"db"`
	Key           string        `yaml:"key"`
	FlushSchedule string        `yaml:"flush_schedule"`
	PopTimeout    time.Duration `yaml:"pop_timeout"`
}

// DefaultFileConfig returns the configuration used when no file is given.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Stream:       stream.DefaultConfig[byte](),
		WriteTimeout: 5 * time.Second,
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			PopTimeout: bridge.DefaultPumpConfig().PopTimeout,
		},
	}
}

// loadConfig overlays the YAML file at path onto cfg. Unknown keys are
// rejected.
func loadConfig(path string, cfg *FileConfig) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.Validate()
}

// Validate reports every invalid setting at once.
func (c FileConfig) Validate() error {
	var result *multierror.Error
	if err := c.Stream.Validate(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.WriteTimeout < 0 {
		result = multierror.Append(result,
			validation.ValidatePositiveDuration("streamkit", "write_timeout", c.WriteTimeout))
	}
	if c.Redis.PopTimeout < 0 {
		result = multierror.Append(result,
			validation.ValidatePositiveDuration("streamkit", "redis.pop_timeout", c.Redis.PopTimeout))
	}
	return result.ErrorOrNil()
}
