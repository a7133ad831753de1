package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type RecordingConfig struct {
	OutputDir        string `toml:"output_dir"`
	Display          int    `toml:"display"`
	SampleIntervalMS int    `toml:"sample_interval_ms"`
}

type Config struct {
	Recording RecordingConfig `toml:"recording"`
}

func NewConfig() *Config {
	return &Config{
		Recording: RecordingConfig{
			OutputDir:        "recordings",
			Display:          0,
			SampleIntervalMS: 10,
		},
	}
}

// Load reads overrides from a TOML file on top of the defaults. A
// missing file is not an error; the defaults are returned as-is.
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

// SampleInterval returns the configured sampling period, falling back
// to the default when the configured value is not positive.
func (c *Config) SampleInterval() time.Duration {
	if c.Recording.SampleIntervalMS <= 0 {
		return 10 * time.Millisecond
	}
	return time.Duration(c.Recording.SampleIntervalMS) * time.Millisecond
}
