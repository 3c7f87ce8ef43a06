// Package config handles intcode.toml run configuration.
package config

import (
	"errors"
	"io"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/intcode/queue"
)

// Config represents an intcode.toml run configuration.
type Config struct {
	Verbose  bool     `toml:"verbose"`
	Language string   `toml:"language"`
	Queue    Queue    `toml:"queue"`
	Pipeline Pipeline `toml:"pipeline"`
}

// Queue configures the queues shared between pipeline stages.
type Queue struct {
	Capacity int `toml:"capacity"`
}

// Pipeline configures the amplifier ring.
type Pipeline struct {
	Seed   int64   `toml:"seed"`
	Phases []int64 `toml:"phases"`
	Jobs   int     `toml:"jobs"`
}

// Default returns the configuration used when no file is given.
func Default() (cfg *Config) {
	cfg = &Config{}
	cfg.applyDefaults()
	return
}

// Load parses a configuration file.
func Load(path string) (*Config, error) {
	inf, err := os.Open(path)
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	defer inf.Close()

	cfg, err := Decode(inf)
	if err != nil {
		return nil, &ErrFile{Path: path, Err: err}
	}

	return cfg, nil
}

// Decode parses a configuration from a TOML stream, applies defaults for
// missing values, and validates the result.
func Decode(r io.Reader) (*Config, error) {
	var cfg Config
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return nil, errors.Join(ErrParse, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		return nil, &ErrSetting{Key: undecoded[0].String(), Value: "(unknown)"}
	}

	cfg.applyDefaults()

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Queue.Capacity == 0 {
		cfg.Queue.Capacity = queue.BOUNDED_DEFAULT_CAPACITY
	}
	if len(cfg.Pipeline.Phases) == 0 {
		cfg.Pipeline.Phases = []int64{5, 6, 7, 8, 9}
	}
}

// Validate checks that the configuration can drive a pipeline.
func (cfg *Config) Validate() error {
	if cfg.Queue.Capacity < 2 {
		return &ErrSetting{Key: "queue.capacity", Value: cfg.Queue.Capacity}
	}
	if cfg.Pipeline.Jobs < 0 {
		return &ErrSetting{Key: "pipeline.jobs", Value: cfg.Pipeline.Jobs}
	}

	seen := make(map[int64]bool, len(cfg.Pipeline.Phases))
	for _, phase := range cfg.Pipeline.Phases {
		if seen[phase] {
			return &ErrSetting{Key: "pipeline.phases", Value: cfg.Pipeline.Phases}
		}
		seen[phase] = true
	}

	return nil
}
