// SPDX-License-Identifier: MIT

// Package config holds the run configuration of the stablematch CLI: engine
// knobs, logging and instance generation. It is loaded from YAML and then
// overridden by command-line flags.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate and Load for unusable settings.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Strategy names accepted by Engine.Strategy.
const (
	StrategyRounds     = "rounds"
	StrategyRelational = "relational"
)

// Generator kinds accepted by Generate.Kind.
const (
	KindRandom    = "random"
	KindIdentical = "identical"
	KindLatin     = "latin"
)

// Config is the root configuration document.
type Config struct {
	Engine   Engine   `yaml:"engine"`
	Log      Log      `yaml:"log"`
	Generate Generate `yaml:"generate"`
}

// Engine configures how matchings are computed.
type Engine struct {
	Strategy         string `yaml:"strategy"`          // rounds | relational
	Workers          int    `yaml:"workers"`           // 0 = GOMAXPROCS
	MaxRounds        int    `yaml:"max_rounds"`        // 0 = n²+1
	ResponderOptimal bool   `yaml:"responder_optimal"` // let responders propose
}

// Log configures the zap logger.
type Log struct {
	Level       string `yaml:"level"` // debug | info | warn | error
	Development bool   `yaml:"development"`
}

// Generate configures the generate command.
type Generate struct {
	Kind string `yaml:"kind"` // random | identical | latin
	N    int    `yaml:"n"`
	Seed int64  `yaml:"seed"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Engine: Engine{
			Strategy: StrategyRounds,
			Workers:  1,
		},
		Log: Log{
			Level: "info",
		},
		Generate: Generate{
			Kind: KindRandom,
			N:    8,
			Seed: 1,
		},
	}
}

// Load reads a YAML file on top of Default. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err = dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: decode %s: %v", ErrInvalidConfig, path, err)
	}
	if err = cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// Validate checks every field for a usable value.
func (c Config) Validate() error {
	switch c.Engine.Strategy {
	case StrategyRounds, StrategyRelational:
	default:
		return fmt.Errorf("%w: unknown engine.strategy %q", ErrInvalidConfig, c.Engine.Strategy)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("%w: engine.workers must be ≥ 0 (%d)", ErrInvalidConfig, c.Engine.Workers)
	}
	if c.Engine.MaxRounds < 0 {
		return fmt.Errorf("%w: engine.max_rounds must be ≥ 0 (%d)", ErrInvalidConfig, c.Engine.MaxRounds)
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	switch c.Generate.Kind {
	case KindRandom, KindIdentical, KindLatin:
	default:
		return fmt.Errorf("%w: unknown generate.kind %q", ErrInvalidConfig, c.Generate.Kind)
	}
	if c.Generate.N < 0 {
		return fmt.Errorf("%w: generate.n must be ≥ 0 (%d)", ErrInvalidConfig, c.Generate.N)
	}

	return nil
}

// Logger builds a zap logger from the Log section.
func (c Config) Logger() (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
	}
	zc := zap.NewProductionConfig()
	if c.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	l, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("config: build logger: %w", err)
	}

	return l, nil
}
